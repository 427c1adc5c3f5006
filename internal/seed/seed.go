// Package seed loads YAML fixtures with items, tags, lists and historical
// timers and writes them through the repository.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"timeTracker/internal/logger"
	"timeTracker/internal/models/item"
	"timeTracker/internal/models/timer"
	"timeTracker/internal/service"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Owner int64         `yaml:"owner"`
	Tags  []TagFixture  `yaml:"tags"`
	Lists []ListFixture `yaml:"lists"`
	Items []ItemFixture `yaml:"items"`
}

type TagFixture struct {
	Text  string `yaml:"text"`
	Color string `yaml:"color"`
}

type ListFixture struct {
	Name string `yaml:"name"`
}

type ItemFixture struct {
	Text   string         `yaml:"text"`
	Status string         `yaml:"status"`
	Tags   []string       `yaml:"tags"`
	Lists  []string       `yaml:"lists"`
	Timers []TimerFixture `yaml:"timers"`
}

type TimerFixture struct {
	Start time.Time  `yaml:"start"`
	Stop  *time.Time `yaml:"stop"`
}

type Result struct {
	Items  int
	Timers int
	Tags   int
	Lists  int
}

func Load(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("открытие %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("разбор yaml: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate проверяет фикстуру целиком до первой записи: некорректная фикстура не пишет ничего
func (fx *Fixture) Validate() error {
	if fx.Owner <= 0 {
		return service.NewValidationError("owner", "должен быть положительным")
	}

	tags := make(map[string]bool, len(fx.Tags))
	for _, t := range fx.Tags {
		tags[t.Text] = true
	}
	lists := make(map[string]bool, len(fx.Lists))
	for _, l := range fx.Lists {
		lists[l.Name] = true
	}

	for i, it := range fx.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.Text == "" {
			return service.NewValidationError(field+".text", "не может быть пустым")
		}
		if it.Status != "" {
			if _, ok := item.ParseStatus(it.Status); !ok {
				return service.NewValidationError(field+".status", "неизвестный статус "+it.Status)
			}
		}
		for _, name := range it.Tags {
			if !tags[name] {
				return service.NewValidationError(field+".tags", "тег не объявлен: "+name)
			}
		}
		for _, name := range it.Lists {
			if !lists[name] {
				return service.NewValidationError(field+".lists", "список не объявлен: "+name)
			}
		}
		for j, t := range it.Timers {
			timerField := fmt.Sprintf("%s.timers[%d]", field, j)
			if t.Stop == nil && j != len(it.Timers)-1 {
				return service.NewValidationError(timerField+".stop", "незавершённым может быть только последний таймер")
			}
			if t.Stop != nil && t.Stop.Before(t.Start) {
				return service.NewValidationError(timerField+".stop", "остановка раньше запуска")
			}
		}
	}
	return nil
}

// Apply записывает фикстуру. Таймеры создаются в порядке файла, так что
// их id растут так же, как при реальной работе. Записи идут без транзакции:
// при ошибке хранилища уже созданные записи остаются, Result считает только их.
func Apply(ctx context.Context, repo service.Repository, fx *Fixture) (Result, error) {
	var res Result
	if err := fx.Validate(); err != nil {
		return res, err
	}

	tagIDs := make(map[string]int64, len(fx.Tags))
	for _, t := range fx.Tags {
		tag := &item.Tag{OwnerID: fx.Owner, Text: t.Text, Color: t.Color}
		if err := repo.CreateTag(ctx, tag); err != nil {
			return res, fmt.Errorf("тег %q: %w", t.Text, err)
		}
		tagIDs[t.Text] = tag.ID
		res.Tags++
	}

	listIDs := make(map[string]int64, len(fx.Lists))
	for _, l := range fx.Lists {
		list := &item.List{OwnerID: fx.Owner, Name: l.Name}
		if err := repo.CreateList(ctx, list); err != nil {
			return res, fmt.Errorf("список %q: %w", l.Name, err)
		}
		listIDs[l.Name] = list.ID
		res.Lists++
	}

	for _, itf := range fx.Items {
		status := item.StatusOpen
		if itf.Status != "" {
			status, _ = item.ParseStatus(itf.Status)
		}

		it := &item.Item{Text: itf.Text, Status: status, OwnerID: fx.Owner}
		if err := repo.CreateItem(ctx, it); err != nil {
			return res, fmt.Errorf("задача %q: %w", itf.Text, err)
		}
		res.Items++

		if err := repo.AttachTags(ctx, it.ID, lookup(tagIDs, itf.Tags)); err != nil {
			return res, fmt.Errorf("теги задачи %q: %w", itf.Text, err)
		}
		if err := repo.AttachLists(ctx, it.ID, lookup(listIDs, itf.Lists)); err != nil {
			return res, fmt.Errorf("списки задачи %q: %w", itf.Text, err)
		}

		for _, tf := range itf.Timers {
			t := &timer.Timer{ItemID: it.ID, UserID: fx.Owner, Start: tf.Start}
			if err := repo.StartTimer(ctx, t); err != nil {
				return res, fmt.Errorf("таймер задачи %q: %w", itf.Text, err)
			}
			if tf.Stop != nil {
				if err := repo.StopTimer(ctx, t.ID, *tf.Stop); err != nil {
					return res, fmt.Errorf("остановка таймера задачи %q: %w", itf.Text, err)
				}
			}
			res.Timers++
		}
	}

	logger.Info("Seed: Фикстура загружена",
		zap.Int64("owner_id", fx.Owner),
		zap.Int("items", res.Items),
		zap.Int("timers", res.Timers))
	return res, nil
}

func lookup(ids map[string]int64, names []string) []int64 {
	res := make([]int64, 0, len(names))
	for _, n := range names {
		res = append(res, ids[n])
	}
	return res
}
