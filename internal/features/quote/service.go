// Package quote — service.go содержит логику получения цитаты дня.
//
// Порядок попыток:
//  1. внешний API (с таймаутом из конфига, по умолчанию 5 секунд);
//  2. случайная цитата из резервной библиотеки в БД;
//  3. встроенные заглушки.
//
// Ошибки API не всплывают к пользователю — отметка дня не должна падать
// из-за чужого сервера. Неудача просто логируется.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/config"
)

// Service управляет цитатами.
type Service struct {
	repo   *Repository
	cfg    *config.Config
	client *http.Client
}

// NewService создаёт сервис цитат.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		client: &http.Client{
			Timeout: cfg.QuoteTimeout,
		},
	}
}

// Random возвращает цитату дня. Никогда не возвращает ошибку:
// в худшем случае — встроенная заглушка.
func (s *Service) Random(ctx context.Context) Quote {
	if s.cfg.FeatureQuotesEnabled {
		q, err := s.fetch(ctx)
		if err == nil {
			// Пополняем резервную библиотеку (кроме заглушек)
			if q.Author != DefaultAuthor {
				if saveErr := s.repo.SaveBackup(ctx, q); saveErr != nil {
					log.WithError(saveErr).Warn("Не удалось сохранить цитату в резерв")
				}
			}
			return q
		}
		log.WithError(err).Debug("API цитат недоступен, берём из резерва")
	}

	if backup, err := s.repo.RandomBackup(ctx); err == nil {
		return backup
	}

	return DefaultQuotes[rand.Intn(len(DefaultQuotes))]
}

// BackupCount возвращает размер резервной библиотеки (команда !цитаты).
func (s *Service) BackupCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// apiResponse — формат ответа forismatic-совместимого API.
type apiResponse struct {
	QuoteText   string `json:"quoteText"`
	QuoteAuthor string `json:"quoteAuthor"`
}

// fetch запрашивает цитату у внешнего API.
func (s *Service) fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.QuoteAPIURL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("ошибка запроса цитаты: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("API цитат ответил %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return Quote{}, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	return decodeResponse(body)
}

// decodeResponse разбирает JSON ответа API в цитату.
func decodeResponse(body []byte) (Quote, error) {
	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Quote{}, fmt.Errorf("ошибка разбора ответа API: %w", err)
	}
	if parsed.QuoteText == "" {
		return Quote{}, fmt.Errorf("API вернул пустую цитату")
	}

	author := parsed.QuoteAuthor
	if author == "" {
		author = "неизвестен"
	}
	return Quote{Text: parsed.QuoteText, Author: author}, nil
}
