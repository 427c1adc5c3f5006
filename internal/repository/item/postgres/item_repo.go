package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timeTracker/internal/logger"
	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
	repo "timeTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var itemColumns = []string{"id", "text", "status", "owner_id", "created_at", "updated_at", "version"}

// joinRow: плоская строка items ⟕ timers до разбора в timer.Row
type joinRow struct {
	ItemID  int64         `db:"item_id"`
	Text    string        `db:"text"`
	Status  item.Status   `db:"status"`
	OwnerID int64         `db:"owner_id"`
	TimerID sql.NullInt64 `db:"timer_id"`
	UserID  sql.NullInt64 `db:"user_id"`
	Start   sql.NullTime  `db:"start"`
	Stop    sql.NullTime  `db:"stop"`
}

func (r joinRow) toRow() timer.Row {
	it := item.Item{ID: r.ItemID, Text: r.Text, Status: r.Status, OwnerID: r.OwnerID}
	if !r.TimerID.Valid {
		return timer.WithoutTimer{Item: it}
	}

	t := timer.Timer{
		ID:     r.TimerID.Int64,
		ItemID: r.ItemID,
		UserID: r.UserID.Int64,
		Start:  r.Start.Time,
	}
	if r.Stop.Valid {
		stop := r.Stop.Time
		t.Stop = &stop
	}
	return timer.WithTimer{Item: it, Timer: t}
}

func (s *Storage) CreateItem(ctx context.Context, itemToCreate *item.Item) error {
	start := time.Now()
	defer s.observe("create_item", start)

	query, args, err := psql.Insert("items").
		Columns("text", "status", "owner_id").
		Values(itemToCreate.Text, itemToCreate.Status, itemToCreate.OwnerID).
		Suffix("RETURNING id, created_at, version").
		ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	err = s.db.QueryRowxContext(ctx, query, args...).Scan(&itemToCreate.ID, &itemToCreate.CreatedAt, &itemToCreate.Version)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

func (s *Storage) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	start := time.Now()
	defer s.observe("get_item", start)

	query, args, err := psql.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	it := &item.Item{}
	if err := s.db.GetContext(ctx, it, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Int64("item_id", id))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return it, nil
}

func (s *Storage) UpdateItem(ctx context.Context, itemToUpdate *item.Item) error {
	start := time.Now()
	defer s.observe("update_item", start)

	query, args, err := psql.Update("items").
		Set("text", itemToUpdate.Text).
		Set("status", itemToUpdate.Status).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": itemToUpdate.ID, "version": itemToUpdate.Version}).
		Suffix("RETURNING updated_at, version").
		ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	err = s.db.QueryRowxContext(ctx, query, args...).Scan(&itemToUpdate.UpdatedAt, &itemToUpdate.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Warn("Конфликт версий при обновлении задачи",
				zap.Int64("item_id", itemToUpdate.ID),
				zap.Int("expected_version", itemToUpdate.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}

// TimerRows отдаёт строки items ⟕ timers владельца по возрастанию id таймера,
// строки без таймера (NULL) идут первыми. Архивные задачи пропускаются.
func (s *Storage) TimerRows(ctx context.Context, ownerID int64) ([]timer.Row, error) {
	start := time.Now()
	defer s.observe("timer_rows", start)

	query, args, err := psql.Select(
		"i.id AS item_id", "i.text", "i.status", "i.owner_id",
		"t.id AS timer_id", "t.user_id", "t.start", "t.stop",
	).
		From("items i").
		LeftJoin("timers t ON t.item_id = i.id").
		Where(sq.Eq{"i.owner_id": ownerID}).
		Where(sq.NotEq{"i.status": item.StatusArchived}).
		OrderBy("t.id ASC NULLS FIRST", "i.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	var flat []joinRow
	if err := s.db.SelectContext(ctx, &flat, query, args...); err != nil {
		logger.Error("Repository: Не удалось получить таймеры", err, zap.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("получение таймеров: %w", err)
	}

	rows := make([]timer.Row, 0, len(flat))
	for _, r := range flat {
		rows = append(rows, r.toRow())
	}
	return rows, nil
}

type tagRow struct {
	ItemID int64 `db:"item_id"`
	item.Tag
}

type listRow struct {
	ItemID int64 `db:"item_id"`
	item.List
}

// Associations отдаёт теги и списки для переданных задач владельца. Статус
// задачи не проверяется: набор id берётся из уже прочитанных строк TimerRows,
// и задача, ушедшая в архив между двумя чтениями, всё равно получает запись.
func (s *Storage) Associations(ctx context.Context, ownerID int64, itemIDs []int64) (map[int64]item.Associations, error) {
	start := time.Now()
	defer s.observe("associations", start)

	if len(itemIDs) == 0 {
		return map[int64]item.Associations{}, nil
	}

	query, args, err := psql.Select("id").From("items").
		Where(sq.Eq{"owner_id": ownerID}).
		Where(sq.Expr("id = ANY(?)", pq.Array(itemIDs))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query, args...); err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Int64("owner_id", ownerID))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	res := make(map[int64]item.Associations, len(ids))
	for _, id := range ids {
		res[id] = item.Associations{Tags: []item.Tag{}, Lists: []item.List{}}
	}
	if len(ids) == 0 {
		return res, nil
	}

	var tags []tagRow
	err = s.db.SelectContext(ctx, &tags, `SELECT it.item_id, t.id, t.owner_id, t.text, t.color
		FROM item_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.item_id = ANY($1)
		ORDER BY t.text, t.id`, pq.Array(ids))
	if err != nil {
		logger.Error("Repository: Не удалось получить теги", err)
		return nil, fmt.Errorf("получение тегов: %w", err)
	}

	var lists []listRow
	err = s.db.SelectContext(ctx, &lists, `SELECT il.item_id, l.id, l.owner_id, l.name
		FROM item_lists il
		JOIN lists l ON l.id = il.list_id
		WHERE il.item_id = ANY($1)
		ORDER BY l.name, l.id`, pq.Array(ids))
	if err != nil {
		logger.Error("Repository: Не удалось получить списки", err)
		return nil, fmt.Errorf("получение списков: %w", err)
	}

	for _, t := range tags {
		a := res[t.ItemID]
		a.Tags = append(a.Tags, t.Tag)
		res[t.ItemID] = a
	}
	for _, l := range lists {
		a := res[l.ItemID]
		a.Lists = append(a.Lists, l.List)
		res[l.ItemID] = a
	}
	return res, nil
}

func (s *Storage) CreateTag(ctx context.Context, tag *item.Tag) error {
	start := time.Now()
	defer s.observe("create_tag", start)

	query, args, err := psql.Insert("tags").
		Columns("owner_id", "text", "color").
		Values(tag.OwnerID, tag.Text, tag.Color).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&tag.ID); err != nil {
		if pgCode(err) == uniqueViolation {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить тег", err)
		return fmt.Errorf("добавление тега: %w", err)
	}
	return nil
}

func (s *Storage) ListTags(ctx context.Context, ownerID int64) ([]item.Tag, error) {
	query, args, err := psql.Select("id", "owner_id", "text", "color").From("tags").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("text", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	tags := []item.Tag{}
	if err := s.db.SelectContext(ctx, &tags, query, args...); err != nil {
		logger.Error("Repository: Не удалось получить теги", err)
		return nil, fmt.Errorf("получение тегов: %w", err)
	}
	return tags, nil
}

func (s *Storage) CreateList(ctx context.Context, list *item.List) error {
	start := time.Now()
	defer s.observe("create_list", start)

	query, args, err := psql.Insert("lists").
		Columns("owner_id", "name").
		Values(list.OwnerID, list.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&list.ID); err != nil {
		if pgCode(err) == uniqueViolation {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить список", err)
		return fmt.Errorf("добавление списка: %w", err)
	}
	return nil
}

func (s *Storage) ListLists(ctx context.Context, ownerID int64) ([]item.List, error) {
	query, args, err := psql.Select("id", "owner_id", "name").From("lists").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("построение запроса: %w", err)
	}

	lists := []item.List{}
	if err := s.db.SelectContext(ctx, &lists, query, args...); err != nil {
		logger.Error("Repository: Не удалось получить списки", err)
		return nil, fmt.Errorf("получение списков: %w", err)
	}
	return lists, nil
}

func (s *Storage) AttachTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	return s.attach(ctx, "item_tags", "tag_id", itemID, tagIDs)
}

func (s *Storage) AttachLists(ctx context.Context, itemID int64, listIDs []int64) error {
	return s.attach(ctx, "item_lists", "list_id", itemID, listIDs)
}

func (s *Storage) attach(ctx context.Context, table, column string, itemID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	start := time.Now()
	defer s.observe("attach_"+table, start)

	insert := psql.Insert(table).Columns("item_id", column).Suffix("ON CONFLICT DO NOTHING")
	for _, id := range ids {
		insert = insert.Values(itemID, id)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("построение запроса: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if notFound(err) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось привязать "+table, err, zap.Int64("item_id", itemID))
		return fmt.Errorf("привязка %s: %w", table, err)
	}
	return nil
}
