package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/summary"
)

// exportUseCase implements ExportUseCase
type exportUseCase struct {
	base
	daily DailyUseCase
}

// NewExportUseCase создает новый экземпляр ExportUseCase. Без Deps.Archive выгрузки отключены.
func NewExportUseCase(d Deps, daily DailyUseCase) ExportUseCase {
	return &exportUseCase{base: newBase(d), daily: daily}
}

type exportDocument struct {
	Username    string              `json:"username"`
	StartDate   domain.Date         `json:"startDate"`
	EndDate     domain.Date         `json:"endDate"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Days        []summary.DailyData `json:"days"`
}

// ExportRange собирает данные по дням за диапазон и загружает их JSON-файлом в объектное хранилище
func (uc *exportUseCase) ExportRange(ctx context.Context, username string, start, end domain.Date) (*ExportResult, error) {
	if uc.Archive == nil {
		return nil, ErrExportsDisabled
	}

	days, err := uc.daily.GetDailyRange(ctx, username, start, end)
	if err != nil {
		return nil, err
	}

	now := uc.Now().UTC()
	body, err := json.Marshal(exportDocument{
		Username:    username,
		StartDate:   start,
		EndDate:     end,
		GeneratedAt: now,
		Days:        days,
	})
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при сериализации выгрузки: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s_%s_%d.json", username, start, end, now.Unix())
	url, err := uc.Archive.UploadFile(ctx, key, body, "application/json")
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при загрузке выгрузки в хранилище: %w", err)
	}

	uc.Logger.Info("daily data exported",
		"username", username,
		"key", key,
		"days", len(days),
		"bytes", len(body),
	)

	return &ExportResult{Key: key, URL: url, StartDate: start, EndDate: end, Days: len(days)}, nil
}
