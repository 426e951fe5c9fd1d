package shell

import "context"

func (s *Shell) categoriesMenu() menu {
	return menu{
		title: "Categories",
		back:  "Back",
		items: []item{
			{label: "Add category", run: s.addCategory},
			{label: "List categories", run: s.listCategories},
			{label: "Rename category", run: s.renameCategory},
			{label: "Delete category", run: s.deleteCategory},
		},
	}
}

func (s *Shell) addCategory(ctx context.Context) error {
	name, err := s.readLine("Category name: ")
	if err != nil {
		return err
	}
	c, err := s.deps.Categories.Add(ctx, name)
	if err != nil {
		return err
	}
	s.printf("Category added (ID=%d).\n", c.ID)
	return nil
}

func (s *Shell) listCategories(ctx context.Context) error {
	list, err := s.deps.Categories.List(ctx)
	if err != nil {
		return err
	}
	s.printCategories(list)
	return nil
}

func (s *Shell) renameCategory(ctx context.Context) error {
	if err := s.listCategories(ctx); err != nil {
		return err
	}
	id, err := s.askID("Category ID to rename: ")
	if err != nil {
		return err
	}
	name, err := s.readLine("New name: ")
	if err != nil {
		return err
	}
	if err := s.deps.Categories.Rename(ctx, id, name); err != nil {
		return err
	}
	s.println("Category renamed.")
	return nil
}

func (s *Shell) deleteCategory(ctx context.Context) error {
	if err := s.listCategories(ctx); err != nil {
		return err
	}
	id, err := s.askID("Category ID to delete: ")
	if err != nil {
		return err
	}
	if err := s.deps.Categories.Delete(ctx, id); err != nil {
		return err
	}
	s.println("Category deleted.")
	return nil
}
