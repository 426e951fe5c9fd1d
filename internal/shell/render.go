package shell

import (
	"strings"

	"spendbook/internal/core"
)

const rule = "----------------------------------------------------------------"

func descriptionTail(desc string) string {
	if desc == "" {
		return ""
	}
	return " | " + desc
}

func (s *Shell) printCategories(list []core.Category) {
	if len(list) == 0 {
		s.println("No categories yet.")
		return
	}
	s.println("\nID | Name")
	for _, c := range list {
		s.printf("%d | %s\n", c.ID, c.Name)
	}
}

// printExpenses prints one line per expense, with the id column when withID.
func (s *Shell) printExpenses(list []core.Expense, withID bool) {
	header := []string{"Date", "Category", "Title", "Amount", "Currency", "Description"}
	if withID {
		header = append([]string{"ID"}, header...)
	}
	s.println()
	s.println(strings.Join(header, " | "))
	s.println(rule)
	for _, e := range list {
		if withID {
			s.printf("%d | ", e.ID)
		}
		s.printf("%s | %s | %s | %s | %s%s\n",
			e.Date, e.CategoryName, e.Title, core.FormatAmount(e.Amount), e.Currency, descriptionTail(e.Description))
	}
}

func (s *Shell) printExpense(e core.Expense) {
	desc := e.Description
	if desc == "" {
		desc = "(none)"
	}
	s.printf("ID: %d\n", e.ID)
	s.printf("Title: %s\n", e.Title)
	s.printf("Date: %s\n", e.Date)
	s.printf("Category: %s (ID %d)\n", e.CategoryName, e.CategoryID)
	s.printf("Amount: %s %s\n", core.FormatAmount(e.Amount), e.Currency)
	s.printf("Description: %s\n", desc)
}

// printExtremes prints the rows of a max/min report.
func (s *Shell) printExtremes(list []core.Expense) {
	s.println("\nCategory | Currency | Amount | Date | Title | ID")
	s.println(rule)
	for _, e := range list {
		s.printf("%s | %s | %s | %s | %s | %d\n",
			e.CategoryName, e.Currency, core.FormatAmount(e.Amount), e.Date, e.Title, e.ID)
	}
}

func (s *Shell) printCategoryTotals(header string, list []core.CategoryTotal) {
	s.println()
	s.println(header)
	s.println(rule)
	for _, t := range list {
		s.printf("%s | %s | %s\n", t.Category, t.Currency, core.FormatAmount(t.Total))
	}
}
