package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/iliyamo/handwash-service/internal/client"
	"github.com/iliyamo/handwash-service/internal/model"
)

// Globals are bound into every command's Run method.
type Globals struct {
	BaseURL string `help:"API base URL, e.g. http://localhost:3000/api." env:"HANDWASH_API_URL"`
	Dev     bool   `help:"Use the local development server when no base URL is set."`
	Lang    string `help:"Message language (en|th)." enum:"en,th" default:"en"`
	Verbose bool   `short:"v" help:"Log transport errors to stderr."`
}

func (g *Globals) client() *client.Client {
	logger := log.New(io.Discard, "", 0)
	if g.Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return client.New(client.Options{
		BaseURL: g.BaseURL,
		Dev:     g.Dev,
		Locale:  g.Lang,
		Logger:  logger,
	})
}

type SubmitCmd struct {
	Status     string `help:"Observed status." required:""`
	Moment     string `help:"Moment of hand hygiene." required:""`
	Method     string `help:"Washing method." required:""`
	Quality    string `help:"Wash quality." required:""`
	Evaluator  string `help:"Who observed." required:""`
	Activity   string `help:"Activity being performed."`
	Suggestion string `help:"Advice for the observed person."`
	Timestamp  string `help:"ISO-8601 time of the observation; server time when empty."`
}

func (c *SubmitCmd) Run(g *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := g.client().Submit(ctx, model.SubmitInput{
		Status:     c.Status,
		Moment:     c.Moment,
		Activity:   c.Activity,
		Method:     c.Method,
		Quality:    c.Quality,
		Evaluator:  c.Evaluator,
		Suggestion: c.Suggestion,
		Timestamp:  c.Timestamp,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("server rejected observation: %s", resp.Message)
	}
	fmt.Printf("recorded observation %d\n", resp.InsertedID)
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(g *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := g.client().Stats(ctx)
	if err != nil {
		return err
	}
	printGroup("status", stats.ByStatus)
	printGroup("method", stats.ByMethod)
	printGroup("quality", stats.ByQuality)
	return nil
}

func printGroup(title string, groups []model.GroupCount) {
	fmt.Printf("%s (%d)\n", strings.ToUpper(title), model.Total(groups))
	for _, g := range groups {
		fmt.Printf("  %-20s %d\n", g.Value, g.Count)
	}
}

var CLI struct {
	Globals

	Submit SubmitCmd `cmd:"" help:"Submit one handwashing observation."`
	Stats  StatsCmd  `cmd:"" help:"Show grouped observation counts."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("handwash"),
		kong.Description("Client for the handwashing observation API"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&CLI.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
