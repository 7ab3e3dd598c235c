// Package members — service.go содержит бизнес-логику реестра участников.
// Сервис координирует регистрацию новых участников и обновление информации.
package members

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/fortune-bot/internal/common"
)

// Service управляет участниками чата.
type Service struct {
	repo *Repository // Репозиторий для работы с таблицей members
}

// NewService создаёт новый сервис участников.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// HandleNewMember обрабатывает вступление нового пользователя в чат.
// Если пользователь уже есть в базе (перезашёл) — обновляет его данные.
// Если пользователь новый — создаёт запись.
func (s *Service) HandleNewMember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		log.WithField("user_id", userID).Info("Участник перезашёл в чат, обновляем данные")
		return s.repo.UpdateInfo(ctx, userID, UpdateInfo{
			Username:  username,
			FirstName: firstName,
			LastName:  lastName,
		})
	}

	member := &Member{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return fmt.Errorf("ошибка регистрации нового участника: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"username": username,
	}).Info("Новый участник зарегистрирован")

	return nil
}

// EnsureMember гарантирует, что пользователь есть в базе.
// Если нет — создаёт запись. Вызывается при первом сообщении в чате.
func (s *Service) EnsureMember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.HandleNewMember(ctx, userID, username, firstName, lastName)
}

// IsMember проверяет, является ли пользователь участником чата.
// Используется для валидации доступа к DM.
func (s *Service) IsMember(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// GetByUserID возвращает участника по его Telegram user ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// MemberIDs возвращает ID всех зарегистрированных участников.
func (s *Service) MemberIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListUserIDs(ctx)
}

// NamesByIDs возвращает отображаемые имена для набора user ID.
func (s *Service) NamesByIDs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	return s.repo.NamesByIDs(ctx, userIDs)
}

// DisplayNameFor возвращает имя пользователя для вывода.
// Если участник не найден в реестре — подставляет ID.
func (s *Service) DisplayNameFor(ctx context.Context, userID int64) string {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Sprintf("id%d", userID)
	}
	return m.DisplayName()
}
