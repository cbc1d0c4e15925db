package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/intelliwealth/advisor/pkg/provider"
)

// AskCmd answers a single question on the command line and exits.
type AskCmd struct {
	Question []string `arg:"" help:"The question to answer."`
}

func (c *AskCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	r, closeDB, err := buildRouter(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	question := strings.Join(c.Question, " ")
	resp := r.Handle(ctx, provider.NewRequest(uuid.NewString(), question))

	fmt.Println(resp.Answer)
	return nil
}
