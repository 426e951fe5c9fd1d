package shell

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"spendbook/internal/core"
)

// readLine prints prompt and returns the next trimmed input line, or io.EOF.
// Lines have no length limit; a last line without a newline still counts.
func (s *Shell) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askID reprompts until a positive integer is entered.
func (s *Shell) askID(prompt string) (int64, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err == nil && id > 0 {
			return id, nil
		}
		s.println("ID must be a positive number.")
	}
}

func (s *Shell) askAmount(prompt string) (decimal.Decimal, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := core.ParseAmount(line)
		if err == nil {
			return d, nil
		}
		s.println("Amount must be a positive number, e.g. 125.50")
	}
}

// askOptionalAmount returns nil for an empty answer.
func (s *Shell) askOptionalAmount(prompt string) (*decimal.Decimal, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil || line == "" {
			return nil, err
		}
		d, err := core.ParseAmount(line)
		if err == nil {
			return &d, nil
		}
		s.println("Amount must be a positive number, e.g. 125.50")
	}
}

const dateHint = "Date must be YYYY-MM-DD or DD.MM.YYYY."

func (s *Shell) askDate(prompt string) (core.Date, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return core.Date{}, err
		}
		d, err := core.ParseDate(line)
		if err == nil {
			return d, nil
		}
		s.println(dateHint)
	}
}

func (s *Shell) askOptionalDate(prompt string) (*core.Date, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil || line == "" {
			return nil, err
		}
		d, err := core.ParseDate(line)
		if err == nil {
			return &d, nil
		}
		s.println(dateHint)
	}
}

func currencyHint() string {
	names := make([]string, 0, len(core.Currencies()))
	for _, c := range core.Currencies() {
		names = append(names, c.String())
	}
	return "Currency must be one of " + strings.Join(names, "/") + "."
}

// askCurrency treats an empty answer as the default currency.
func (s *Shell) askCurrency(prompt string) (core.Currency, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return "", err
		}
		if line == "" {
			return core.DefaultCurrency, nil
		}
		c, err := core.ParseCurrency(line)
		if err == nil {
			return c, nil
		}
		s.println(currencyHint())
	}
}

func (s *Shell) askOptionalCurrency(prompt string) (*core.Currency, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil || line == "" {
			return nil, err
		}
		c, err := core.ParseCurrency(line)
		if err == nil {
			return &c, nil
		}
		s.println(currencyHint())
	}
}

// askPeriod reads both ends of a period and swaps them when reversed.
func (s *Shell) askPeriod() (core.Period, error) {
	from, err := s.askDate("From date (YYYY-MM-DD or DD.MM.YYYY): ")
	if err != nil {
		return core.Period{}, err
	}
	to, err := s.askDate("To date (YYYY-MM-DD or DD.MM.YYYY): ")
	if err != nil {
		return core.Period{}, err
	}
	p, swapped := core.NewPeriod(from, to)
	if swapped {
		s.println("From date is after To date: swapping them.")
	}
	return p, nil
}

// confirm accepts exactly "yes" or "no" and reprompts otherwise.
func (s *Shell) confirm(prompt string) (bool, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return false, err
		}
		switch line {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
		s.println("Type exactly 'yes' or 'no'.")
	}
}
