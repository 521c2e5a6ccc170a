package main

import (
	"fmt"
	"os"
	"time"

	"signal_hub/internal/modules/schedule/service"
	"signal_hub/pkg/logger"
)

// marketcheck — ручная проверка расписания: активен ли рынок по символу и
// когда следующее открытие.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: marketcheck SYMBOL [RFC3339-time]")
		os.Exit(2)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	symbol := os.Args[1]
	now := time.Now().UTC()
	if len(os.Args) > 2 {
		t, err := time.Parse(time.RFC3339, os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad time: %v\n", err)
			os.Exit(2)
		}
		now = t.UTC()
	}

	table, err := service.NewTable(os.Getenv("SCHEDULE_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	eval := service.NewEvaluator(table)

	fmt.Printf("symbol:   %s\n", symbol)
	fmt.Printf("schedule: %s\n", eval.Describe(symbol))
	fmt.Printf("active:   %v (at %s)\n", eval.IsActive(symbol, now), now.Format(time.RFC3339))
	if next := eval.NextActiveStart(symbol, now); next != nil {
		fmt.Printf("next:     %s\n", next.Format(time.RFC3339))
	}
}
