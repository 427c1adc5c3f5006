package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"timeTracker/internal/logger"
	"timeTracker/internal/models/item"
	rep "timeTracker/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type ItemService struct {
	repo Repository
	now  func() time.Time
}

func NewItemService(repo Repository) *ItemService {
	return &ItemService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock подменяет источник текущего времени (для тестов и импорта)
func (s *ItemService) WithClock(now func() time.Time) *ItemService {
	s.now = now
	return s
}

func (s *ItemService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, text string, tagIDs, listIDs []int64) (*item.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("text", "не может быть пустым")
	}

	if err := s.checkTags(ctx, ownerID, tagIDs); err != nil {
		return nil, err
	}
	if err := s.checkLists(ctx, ownerID, listIDs); err != nil {
		return nil, err
	}

	it := &item.Item{
		Text:    text,
		Status:  item.StatusOpen,
		OwnerID: ownerID,
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	if err := s.repo.AttachTags(ctx, it.ID, tagIDs); err != nil {
		return nil, fmt.Errorf("привязка тегов: %w", err)
	}
	if err := s.repo.AttachLists(ctx, it.ID, listIDs); err != nil {
		return nil, fmt.Errorf("привязка списков: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("item_id", it.ID), zap.Int64("owner_id", ownerID))
	return it, nil
}

// теги приходят уже созданными, проверяем только принадлежность владельцу
func (s *ItemService) checkTags(ctx context.Context, ownerID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	tags, err := s.repo.ListTags(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("получение тегов: %w", err)
	}
	known := make(map[int64]bool, len(tags))
	for _, t := range tags {
		known[t.ID] = true
	}
	for _, id := range tagIDs {
		if !known[id] {
			return NewNotFound(ResourceTag, id)
		}
	}
	return nil
}

func (s *ItemService) checkLists(ctx context.Context, ownerID int64, listIDs []int64) error {
	if len(listIDs) == 0 {
		return nil
	}
	lists, err := s.repo.ListLists(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("получение списков: %w", err)
	}
	known := make(map[int64]bool, len(lists))
	for _, l := range lists {
		known[l.ID] = true
	}
	for _, id := range listIDs {
		if !known[id] {
			return NewNotFound(ResourceList, id)
		}
	}
	return nil
}

// GetItem возвращает задачу владельца; чужие задачи выглядят как несуществующие
func (s *ItemService) GetItem(ctx context.Context, ownerID, id int64) (*item.Item, error) {
	it, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(ResourceItem, id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	if it.OwnerID != ownerID {
		logger.Warn("Service: Попытка доступа к чужой задаче",
			zap.Int64("target_id", id),
			zap.Int64("owner_id", ownerID))
		return nil, NewNotFound(ResourceItem, id)
	}
	return it, nil
}

func (s *ItemService) getActive(ctx context.Context, ownerID, id int64) (*item.Item, error) {
	it, err := s.GetItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if it.Status == item.StatusArchived {
		return nil, NewBusinessError(CodeItemArchived, "задача в архиве", ToDetail("id", id))
	}
	return it, nil
}

func (s *ItemService) save(ctx context.Context, it *item.Item) error {
	if err := s.repo.UpdateItem(ctx, it); err != nil {
		if errors.Is(err, rep.ErrVersionConflict) {
			return NewBusinessError(CodeVersionConflict, "задача была изменена параллельно",
				ToDetail("id", it.ID),
				ToDetail("version", it.Version))
		}
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}

// UpdateItem меняет текст и статус. Статус started ставится только запуском
// таймера, archived только через ArchiveItem; переход в done останавливает таймер.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, id int64, options ...item.ItemOption) (*item.Item, error) {
	it, err := s.getActive(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	prev := it.Status
	for _, opt := range options {
		if opt != nil {
			opt(it)
		}
	}

	if it.Status != prev {
		switch it.Status {
		case item.StatusStarted:
			return nil, NewValidationError("status", "статус started выставляется запуском таймера")
		case item.StatusArchived:
			return nil, NewValidationError("status", "для архивации используйте удаление задачи")
		case item.StatusDone:
			if _, err := s.stopRunning(ctx, it.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.save(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// ToggleItem переключает задачу между done и open; у завершённой задачи таймер останавливается
func (s *ItemService) ToggleItem(ctx context.Context, ownerID, id int64) (*item.Item, error) {
	it, err := s.getActive(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if it.Status == item.StatusDone {
		it.Status = item.StatusOpen
	} else {
		if _, err := s.stopRunning(ctx, it.ID); err != nil {
			return nil, err
		}
		it.Status = item.StatusDone
	}

	if err := s.save(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// ArchiveItem: мягкое удаление, запись остаётся в базе со статусом archived
func (s *ItemService) ArchiveItem(ctx context.Context, ownerID, id int64) error {
	it, err := s.getActive(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if _, err := s.stopRunning(ctx, it.ID); err != nil {
		return err
	}

	it.Status = item.StatusArchived
	if err := s.save(ctx, it); err != nil {
		return err
	}
	logger.Info("Service: Задача перемещена в архив", zap.Int64("item_id", id))
	return nil
}

func (s *ItemService) CreateTag(ctx context.Context, ownerID int64, text, color string) (*item.Tag, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("text", "не может быть пустым")
	}

	tag := &item.Tag{OwnerID: ownerID, Text: text, Color: color}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, rep.ErrAlreadyExists) {
			return nil, NewBusinessError(CodeAlreadyExists, "тег уже существует", ToDetail("text", text))
		}
		return nil, fmt.Errorf("создание тега: %w", err)
	}
	return tag, nil
}

func (s *ItemService) ListTags(ctx context.Context, ownerID int64) ([]item.Tag, error) {
	tags, err := s.repo.ListTags(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("получение тегов: %w", err)
	}
	return tags, nil
}

func (s *ItemService) CreateList(ctx context.Context, ownerID int64, name string) (*item.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "не может быть пустым")
	}

	list := &item.List{OwnerID: ownerID, Name: name}
	if err := s.repo.CreateList(ctx, list); err != nil {
		if errors.Is(err, rep.ErrAlreadyExists) {
			return nil, NewBusinessError(CodeAlreadyExists, "список уже существует", ToDetail("name", name))
		}
		return nil, fmt.Errorf("создание списка: %w", err)
	}
	return list, nil
}

func (s *ItemService) ListLists(ctx context.Context, ownerID int64) ([]item.List, error) {
	lists, err := s.repo.ListLists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("получение списков: %w", err)
	}
	return lists, nil
}
