// DailyTrack — сервис учёта задач, рефлексий и оценок энергии по дням.
package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		// bootstrap-логгер: основной мог ещё не успеть создаться
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("command failed", "error", err)
		os.Exit(1)
	}
}
