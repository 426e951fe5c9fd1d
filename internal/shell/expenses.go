package shell

import (
	"context"
	"strconv"

	"spendbook/internal/core"
	"spendbook/internal/services"
)

func (s *Shell) expensesMenu() menu {
	return menu{
		title: "Expenses",
		back:  "Back",
		items: []item{
			{label: "Add expense", run: s.addExpense},
			{label: "List expenses", run: s.listExpenses},
			{label: "View expense details", run: s.viewExpense},
			{label: "Update expense", run: s.updateExpense},
			{label: "Delete expense", run: s.deleteExpense},
		},
	}
}

func (s *Shell) addExpense(ctx context.Context) error {
	amount, err := s.askAmount("Amount: ")
	if err != nil {
		return err
	}
	date, err := s.askDate("Date (YYYY-MM-DD or DD.MM.YYYY): ")
	if err != nil {
		return err
	}
	currency, err := s.askCurrency("Currency (Enter = UAH, UAH/USD/EUR): ")
	if err != nil {
		return err
	}

	if err := s.listCategories(ctx); err != nil {
		return err
	}
	ref, err := s.readLine("Category ID or keyword: ")
	if err != nil {
		return err
	}
	cat, err := s.deps.Categories.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	title, err := s.readLine("Title (Enter = category name): ")
	if err != nil {
		return err
	}
	desc, err := s.readLine("Description (optional): ")
	if err != nil {
		return err
	}

	e, err := s.deps.Expenses.Add(ctx, services.NewExpense{
		Title:       title,
		Amount:      amount,
		Date:        date,
		CategoryRef: strconv.FormatInt(cat.ID, 10),
		Description: desc,
		Currency:    currency,
	})
	if err != nil {
		return err
	}
	s.printf("Expense added (ID=%d).\n", e.ID)
	return nil
}

func (s *Shell) listExpenses(ctx context.Context) error {
	list, err := s.deps.Expenses.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.println("No expenses yet.")
		return nil
	}
	s.printExpenses(list, true)
	return nil
}

func (s *Shell) viewExpense(ctx context.Context) error {
	id, err := s.askID("Expense ID: ")
	if err != nil {
		return err
	}
	e, err := s.deps.Expenses.View(ctx, id)
	if err != nil {
		return err
	}
	s.println()
	s.printExpense(e)
	return nil
}

func (s *Shell) updateExpense(ctx context.Context) error {
	id, err := s.askID("Expense ID to update: ")
	if err != nil {
		return err
	}
	current, err := s.deps.Expenses.View(ctx, id)
	if err != nil {
		return err
	}
	s.println("\nCurrent values:")
	s.printExpense(current)
	s.println("\nEnter new values or press Enter to keep the current one.")

	var patch services.ExpensePatch
	title, err := s.readLine("New title: ")
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}
	if patch.Date, err = s.askOptionalDate("New date (Enter = keep): "); err != nil {
		return err
	}
	if patch.CategoryRef, err = s.readLine("New category (ID or keyword, Enter = keep): "); err != nil {
		return err
	}
	if patch.Amount, err = s.askOptionalAmount("New amount (Enter = keep): "); err != nil {
		return err
	}
	if patch.Currency, err = s.askOptionalCurrency("New currency (Enter = keep, UAH/USD/EUR): "); err != nil {
		return err
	}
	desc, err := s.readLine("New description (Enter = keep, '-' = clear): ")
	if err != nil {
		return err
	}
	patch.DescriptionEdit, patch.Description = services.ParseDescriptionInput(desc)

	if _, err := s.deps.Expenses.Update(ctx, id, patch); err != nil {
		return err
	}
	s.println("Expense updated.")
	return nil
}

func (s *Shell) deleteExpense(ctx context.Context) error {
	id, err := s.askID("Expense ID to delete: ")
	if err != nil {
		return err
	}
	e, err := s.deps.Expenses.View(ctx, id)
	if err != nil {
		return err
	}
	s.printf("Found: ID=%d | %s | %s | %s | %s %s%s\n",
		e.ID, e.Date, e.CategoryName, e.Title, core.FormatAmount(e.Amount), e.Currency, descriptionTail(e.Description))

	ok, err := s.confirm("Confirm deletion (yes/no): ")
	if err != nil {
		return err
	}
	if !ok {
		s.println("Deletion cancelled.")
		return nil
	}
	if err := s.deps.Expenses.Delete(ctx, id); err != nil {
		return err
	}
	s.println("Expense deleted.")
	return nil
}
