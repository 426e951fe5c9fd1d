// Package shell is the interactive text front end: numbered menus read from
// an input stream, dispatching to the services.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	applog "spendbook/internal/log"
	"spendbook/internal/services"
)

// Deps are the services the menus call into.
type Deps struct {
	Categories *services.CategoryService
	Expenses   *services.ExpenseService
	Reports    *services.ReportService
	Logger     *applog.Logger
}

type Shell struct {
	in   *bufio.Reader
	out  io.Writer
	deps Deps
}

func New(in io.Reader, out io.Writer, deps Deps) *Shell {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	deps.Logger = deps.Logger.WithComponent(applog.ComponentShell)
	return &Shell{in: bufio.NewReader(in), out: out, deps: deps}
}

// Run shows the main menu until the user exits or the input ends.
func (s *Shell) Run(ctx context.Context) error {
	ctx = applog.NewContext(ctx, s.deps.Logger)
	s.deps.Logger.InfoContext(ctx, "Shell started", applog.FieldOperation, applog.OpStartup)

	err := s.runMenu(ctx, s.mainMenu())
	if errors.Is(err, io.EOF) {
		s.println()
		err = nil
	}
	if err == nil {
		s.println("Bye!")
	}
	s.deps.Logger.InfoContext(ctx, "Shell stopped", applog.FieldOperation, applog.OpShutdown)
	return err
}

// item is either an action or, when sub is set, a nested menu.
type item struct {
	label string
	run   func(ctx context.Context) error
	sub   *menu
}

type menu struct {
	title string
	back  string
	items []item
}

func (s *Shell) draw(m menu) {
	s.printf("\n=== %s ===\n", m.title)
	for i, it := range m.items {
		s.printf("%d. %s\n", i+1, it.label)
	}
	s.printf("0. %s\n", m.back)
}

// runMenu loops over one menu. It returns nil when the user picks 0 and
// io.EOF when the input ends; failures of an action are reported and the
// loop continues.
func (s *Shell) runMenu(ctx context.Context, m menu) error {
	for {
		s.draw(m)
		choice, err := s.readLine("Your choice: ")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(m.items) {
			s.println("Invalid choice.")
			continue
		}
		it := m.items[n-1]
		if it.sub != nil {
			if err := s.runMenu(ctx, *it.sub); err != nil {
				return err
			}
			continue
		}
		if err := s.traced(ctx, it.label, func(ctx context.Context) error {
			err := it.run(ctx)
			if err != nil && !errors.Is(err, io.EOF) {
				s.report(ctx, it.label, err)
			}
			return err
		}); errors.Is(err, io.EOF) {
			return err
		}
	}
}

func submenu(m menu) item {
	return item{label: m.title, sub: &m}
}

func (s *Shell) mainMenu() menu {
	return menu{
		title: "Expense tracker",
		back:  "Exit",
		items: []item{
			submenu(s.categoriesMenu()),
			submenu(s.expensesMenu()),
			submenu(s.reportsMenu()),
		},
	}
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(args ...any) {
	fmt.Fprintln(s.out, args...)
}
