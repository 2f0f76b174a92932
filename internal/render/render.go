// Package render превращает проекцию PO или счёта в PDF или XLSX документ.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"procurement/models"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

var contentTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseFormat пустая строка означает pdf
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatXLSX:
		return f, nil
	default:
		return "", models.Validation("unsupported document format %q, use pdf or xlsx", s)
	}
}

type Output struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Renderer ограничивает число одновременных рендеров
type Renderer struct {
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *zap.Logger
}

func NewRenderer(workers int, timeout time.Duration, logger *zap.Logger) *Renderer {
	if workers <= 0 {
		workers = 1
	}
	return &Renderer{sem: semaphore.NewWeighted(int64(workers)), timeout: timeout, logger: logger}
}

type result struct {
	data []byte
	err  error
}

// Render ждёт свободный слот и результат не дольше timeout и жизни ctx.
// Слот освобождается только после завершения рендера.
func (r *Renderer) Render(ctx context.Context, doc models.Document, format Format) (*Output, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return nil, busy(err)
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, busy(err)
	}

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		defer r.sem.Release(1)
		data, err := renderDocument(doc, format)
		done <- result{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("render %s %s: %w", doc.Kind, doc.ID, res.err)
		}
		r.logger.Debug("document rendered",
			zap.String("kind", string(doc.Kind)),
			zap.String("id", doc.ID),
			zap.String("format", string(format)),
			zap.Int("bytes", len(res.data)),
			zap.Duration("took", time.Since(start)))
		return &Output{
			Data:        res.data,
			ContentType: contentTypes[format],
			Filename:    fmt.Sprintf("%s_%s.%s", doc.Kind, doc.ID, format),
		}, nil
	case <-ctx.Done():
		return nil, busy(ctx.Err())
	}
}

func busy(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &models.Error{Kind: models.ErrUnavailable, Message: "document renderer is busy, try again later"}
}

func renderDocument(doc models.Document, format Format) ([]byte, error) {
	switch format {
	case FormatPDF:
		return renderPDF(doc)
	case FormatXLSX:
		return renderXLSX(doc)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func title(doc models.Document) string {
	if doc.Kind == models.DocumentInvoice {
		return "Invoice"
	}
	return "Purchase Order"
}

func partyLine(p models.Party) string {
	if p.Email == "" {
		return p.Name
	}
	return fmt.Sprintf("%s <%s>", p.Name, p.Email)
}
