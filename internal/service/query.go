package service

import (
	"context"
	"fmt"

	"timeTracker/internal/aggregate"
	"timeTracker/internal/logger"
	"timeTracker/internal/models/item"

	"go.uber.org/zap"
)

// ListItems собирает задачи владельца с одним таймером на задачу, тегами и списками.
// Порядок: от новых задач к старым.
func (s *ItemService) ListItems(ctx context.Context, ownerID int64) ([]item.View, error) {
	rows, err := s.repo.TimerRows(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("получение таймеров: %w", err)
	}

	views := aggregate.Aggregate(rows)
	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}

	assoc, err := s.repo.Associations(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("получение тегов и списков: %w", err)
	}

	views, err = Enrich(views, assoc)
	if err != nil {
		logger.Error("Service: Несогласованные данные задач", err, zap.Int64("owner_id", ownerID))
		return nil, err
	}
	return views, nil
}

// Enrich добавляет к каждой записи заранее загруженные теги и списки её задачи.
// Отсутствие записи в assoc: ошибка согласованности данных, а не пустой набор.
func Enrich(views []item.View, assoc map[int64]item.Associations) ([]item.View, error) {
	res := make([]item.View, len(views))
	for i, v := range views {
		a, ok := assoc[v.ID]
		if !ok {
			return nil, NewBusinessError(CodeInconsistentState,
				fmt.Sprintf("нет тегов и списков для задачи %d", v.ID),
				ToDetail("id", v.ID))
		}
		v.Tags = a.Tags
		v.Lists = a.Lists
		res[i] = v
	}
	return res, nil
}
