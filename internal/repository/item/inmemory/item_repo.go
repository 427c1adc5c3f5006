package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"timeTracker/internal/logger"
	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
	repo "timeTracker/internal/repository"
)

type Storage struct {
	items  map[int64]*item.Item
	timers map[int64]*timer.Timer
	tags   map[int64]*item.Tag
	lists  map[int64]*item.List

	itemTags  map[int64]map[int64]struct{}
	itemLists map[int64]map[int64]struct{}

	// порядок создания
	itemIDs  []int64
	timerIDs []int64

	seq int64
	mtx *sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		items:     make(map[int64]*item.Item),
		timers:    make(map[int64]*timer.Timer),
		tags:      make(map[int64]*item.Tag),
		lists:     make(map[int64]*item.List),
		itemTags:  make(map[int64]map[int64]struct{}),
		itemLists: make(map[int64]map[int64]struct{}),
		itemIDs:   []int64{},
		timerIDs:  []int64{},
		mtx:       &sync.RWMutex{},
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Storage) CreateItem(ctx context.Context, itemToCreate *item.Item) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	itemToCreate.ID = s.nextID()
	itemToCreate.CreatedAt = time.Now()
	itemToCreate.Version = 1

	stored := *itemToCreate
	s.items[stored.ID] = &stored
	s.itemIDs = append(s.itemIDs, stored.ID)
	return nil
}

func (s *Storage) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (s *Storage) UpdateItem(ctx context.Context, itemToUpdate *item.Item) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.items[itemToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if stored.Version != itemToUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	itemToUpdate.UpdatedAt = &now
	itemToUpdate.Version++

	updated := *itemToUpdate
	s.items[updated.ID] = &updated
	return nil
}

// TimerRows отдаёт строки items ⟕ timers владельца по возрастанию id таймера,
// строки без таймера идут первыми. Архивные задачи пропускаются.
func (s *Storage) TimerRows(ctx context.Context, ownerID int64) ([]timer.Row, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	rows := []timer.Row{}
	hasTimer := make(map[int64]bool)

	for _, id := range s.timerIDs {
		t := s.timers[id]
		it, ok := s.items[t.ItemID]
		if !ok || !s.visible(it, ownerID) {
			continue
		}
		hasTimer[it.ID] = true
		rows = append(rows, timer.WithTimer{Item: *it, Timer: copyTimer(t)})
	}

	placeholders := []timer.Row{}
	for _, id := range s.itemIDs {
		it := s.items[id]
		if !s.visible(it, ownerID) || hasTimer[id] {
			continue
		}
		placeholders = append(placeholders, timer.WithoutTimer{Item: *it})
	}

	return append(placeholders, rows...), nil
}

func (s *Storage) visible(it *item.Item, ownerID int64) bool {
	return it.OwnerID == ownerID && it.Status != item.StatusArchived
}

// Associations отдаёт теги и списки переданных задач владельца, включая архивные
func (s *Storage) Associations(ctx context.Context, ownerID int64, itemIDs []int64) (map[int64]item.Associations, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make(map[int64]item.Associations, len(itemIDs))
	for _, id := range itemIDs {
		it, ok := s.items[id]
		if !ok || it.OwnerID != ownerID {
			continue
		}

		assoc := item.Associations{Tags: []item.Tag{}, Lists: []item.List{}}
		for tagID := range s.itemTags[id] {
			assoc.Tags = append(assoc.Tags, *s.tags[tagID])
		}
		for listID := range s.itemLists[id] {
			assoc.Lists = append(assoc.Lists, *s.lists[listID])
		}
		sortTags(assoc.Tags)
		sortLists(assoc.Lists)
		res[id] = assoc
	}
	return res, nil
}

func (s *Storage) CreateTag(ctx context.Context, tag *item.Tag) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, t := range s.tags {
		if t.OwnerID == tag.OwnerID && t.Text == tag.Text {
			return repo.ErrAlreadyExists
		}
	}

	tag.ID = s.nextID()
	stored := *tag
	s.tags[stored.ID] = &stored
	return nil
}

func (s *Storage) ListTags(ctx context.Context, ownerID int64) ([]item.Tag, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []item.Tag{}
	for _, t := range s.tags {
		if t.OwnerID == ownerID {
			res = append(res, *t)
		}
	}
	sortTags(res)
	return res, nil
}

func (s *Storage) CreateList(ctx context.Context, list *item.List) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, l := range s.lists {
		if l.OwnerID == list.OwnerID && l.Name == list.Name {
			return repo.ErrAlreadyExists
		}
	}

	list.ID = s.nextID()
	stored := *list
	s.lists[stored.ID] = &stored
	return nil
}

func (s *Storage) ListLists(ctx context.Context, ownerID int64) ([]item.List, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []item.List{}
	for _, l := range s.lists {
		if l.OwnerID == ownerID {
			res = append(res, *l)
		}
	}
	sortLists(res)
	return res, nil
}

func (s *Storage) AttachTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return repo.ErrNotFound
	}
	for _, id := range tagIDs {
		if _, ok := s.tags[id]; !ok {
			return repo.ErrNotFound
		}
	}

	set, ok := s.itemTags[itemID]
	if !ok {
		set = make(map[int64]struct{})
		s.itemTags[itemID] = set
	}
	for _, id := range tagIDs {
		set[id] = struct{}{}
	}
	return nil
}

func (s *Storage) AttachLists(ctx context.Context, itemID int64, listIDs []int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return repo.ErrNotFound
	}
	for _, id := range listIDs {
		if _, ok := s.lists[id]; !ok {
			return repo.ErrNotFound
		}
	}

	set, ok := s.itemLists[itemID]
	if !ok {
		set = make(map[int64]struct{})
		s.itemLists[itemID] = set
	}
	for _, id := range listIDs {
		set[id] = struct{}{}
	}
	return nil
}

func sortTags(tags []item.Tag) {
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Text == tags[j].Text {
			return tags[i].ID < tags[j].ID
		}
		return tags[i].Text < tags[j].Text
	})
}

func sortLists(lists []item.List) {
	sort.Slice(lists, func(i, j int) bool {
		if lists[i].Name == lists[j].Name {
			return lists[i].ID < lists[j].ID
		}
		return lists[i].Name < lists[j].Name
	})
}
