// Package render превращает данные дня в PNG-карточку.
// render.go — рендер через headless Chrome (chromedp): HTML грузится
// как data:-URL, страница снимается целиком при вьюпорте 600×800.
package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

const (
	cardWidth  = 600
	cardHeight = 800
)

// Renderer рисует карточку дня. Недоступный рендер — не фатален:
// обработчики падают обратно на текстовый ответ.
type Renderer interface {
	RenderCard(ctx context.Context, data *CardData) ([]byte, error)
}

// ChromeRenderer — реализация поверх headless Chrome.
type ChromeRenderer struct {
	timeout time.Duration
}

// NewChromeRenderer создаёт рендерер карточек.
func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{timeout: timeout}
}

// RenderCard рендерит карточку в PNG.
// На каждый вызов поднимается свежий контекст браузера: рендер редкий
// (раз в день на пользователя), зато утечки вкладок исключены.
func (r *ChromeRenderer) RenderCard(ctx context.Context, data *CardData) ([]byte, error) {
	html, err := BuildHTML(data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	started := time.Now()
	var png []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(cardWidth, cardHeight),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка рендера карточки: %w", err)
	}

	log.WithField("took", time.Since(started).Round(time.Millisecond)).Debug("Карточка отрисована")
	return png, nil
}
