package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"spendbook/internal/core"
)

// CategoryService manages categories and resolves user references to them.
type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) Add(ctx context.Context, name string) (core.Category, error) {
	c, err := s.store.CreateCategory(ctx, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) Rename(ctx context.Context, id int64, name string) error {
	if err := s.store.RenameCategory(ctx, id, name); err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Resolve turns a reference typed by the user into a category. An all-digit
// reference is an id; anything else is a case-insensitive name fragment and
// the lowest matching id wins.
func (s *CategoryService) Resolve(ctx context.Context, ref string) (core.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return core.Category{}, fmt.Errorf("%w: empty reference", core.ErrCategoryNotFound)
	}
	if isDigits(ref) {
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return core.Category{}, fmt.Errorf("%w: id %s", core.ErrCategoryNotFound, ref)
		}
		return s.store.GetCategory(ctx, id)
	}
	return s.store.FindCategoryByKeyword(ctx, ref)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
