package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencommittee/scribe/credentials"
	"github.com/opencommittee/scribe/pkg/catalog"
	"github.com/opencommittee/scribe/pkg/db"
	"github.com/opencommittee/scribe/pkg/events"
	"github.com/opencommittee/scribe/pkg/extract"
	"github.com/opencommittee/scribe/pkg/logging"
	"github.com/opencommittee/scribe/pkg/observability"
	"github.com/opencommittee/scribe/pkg/pipeline"
	"github.com/opencommittee/scribe/pkg/store"
)

// Process command flags.
var (
	processName string
	processType string
	processDate string
)

func newProcessCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <transcript-path>",
		Short: "Process a meeting transcript into committee records",
		Long: `Process a meeting transcript: extract attendees, projects, topics,
tasks, and a summary, resolve them against the committee catalog, and
persist everything in one transaction.

Missing --name or --type are prompted for interactively.

Examples:
  # Fully scripted
  scribe process ./transcript.txt --name "Weekly sync" --type full

  # Interactive: prompts for meeting name and type
  scribe process ./transcript.txt

  # Backdate the meeting
  scribe process ./transcript.txt --name "Q1 review" --type executive --date 2026-01-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&processName, "name", "n", "", "Meeting name")
	cmd.Flags().StringVarP(&processType, "type", "t", "", "Meeting type (see 'scribe catalog' output)")
	cmd.Flags().StringVar(&processDate, "date", "", "Meeting date (YYYY-MM-DD, defaults to now)")

	return cmd
}

func runProcess(ctx context.Context, deps *Deps, path string) error {
	cfg := deps.Config
	log := deps.Logger

	if cfg.Completion.APIKey == "" {
		key, err := credentials.APIKey()
		if err != nil {
			if errors.Is(err, credentials.ErrNoCredentials) {
				return errors.New("no API key available: set OPENAI_API_KEY or run 'scribe auth set'")
			}
			return err
		}
		cfg.Completion.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	meetingName := processName
	meetingType := processType
	reader := bufio.NewReader(os.Stdin)
	if meetingName == "" {
		var err error
		meetingName, err = promptLine(reader, "Meeting name: ")
		if err != nil {
			return err
		}
	}
	if meetingType == "" {
		var err error
		meetingType, err = promptMeetingType(reader)
		if err != nil {
			return err
		}
	}

	meetingDate := time.Time{}
	if processDate != "" {
		parsed, err := time.Parse(extract.DateLayout, processDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", processDate)
		}
		meetingDate = parsed
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cat, err := catalog.Load(ctx, pool)
	if err != nil {
		return err
	}
	log.Info("catalog loaded",
		logging.F("members", len(cat.Members())),
		logging.F("projects", len(cat.Projects())),
		logging.F("topics", len(cat.Topics())))

	provider := extract.NewOpenAIProvider(extract.OpenAIConfig{
		BaseURL:     cfg.Completion.BaseURL,
		Model:       cfg.Completion.Model,
		APIKey:      cfg.Completion.APIKey,
		Temperature: cfg.Completion.Temperature,
		Timeout:     cfg.Completion.Timeout,
	})
	metrics := observability.DefaultMetrics()
	client := extract.NewClient(provider, cat, log, metrics)
	repo := store.NewRepository(pool, log)

	var publisher *events.Publisher
	if cfg.RedisAddr != "" {
		publisher, err = events.NewPublisherFromAddr(cfg.RedisAddr, log)
		if err != nil {
			// Events are best-effort; the run proceeds without them.
			log.Warn("event publishing disabled", logging.Err(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	engine := pipeline.NewEngine(cat, client, repo, log, pipeline.Options{
		Publisher:  publisher,
		Metrics:    metrics,
		RunTimeout: cfg.RunTimeout,
	})

	result, err := engine.ProcessFile(ctx, path, meetingName, meetingType, meetingDate)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("input must not be empty")
	}
	return line, nil
}

func promptMeetingType(reader *bufio.Reader) (string, error) {
	types := catalog.MeetingTypes()
	fmt.Println("Meeting types:")
	for i, mt := range types {
		fmt.Printf("  %d. %s (%s)\n", i+1, mt, mt.Label())
	}
	choice, err := promptLine(reader, "Meeting type (number or name): ")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(types) {
			return "", fmt.Errorf("choice %d out of range", n)
		}
		return string(types[n-1]), nil
	}
	if !catalog.ValidMeetingType(choice) {
		return "", fmt.Errorf("unknown meeting type %q", choice)
	}
	return choice, nil
}

func printResult(result *pipeline.ProcessingResult) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Transcript integrated")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Meeting ID:      %d\n", result.MeetingID)
	fmt.Printf("Meeting name:    %s\n", result.MeetingName)
	fmt.Printf("Meeting type:    %s\n", result.MeetingType.Label())
	fmt.Printf("Summary length:  %d chars\n", result.SummaryLength)
	fmt.Printf("Members:         %d %s\n", result.MembersIdentified, nameList(result.MemberNames))
	fmt.Printf("Projects:        %d %s\n", result.ProjectsLinked, nameList(result.ProjectNames))
	fmt.Printf("Topics:          %d (%d new) %s\n", result.TopicsLinked, result.NewTopicsCreated, nameList(result.TopicNames))
	fmt.Printf("Tasks:           %d %s\n", result.TasksCreated, nameList(result.TaskNames))
}

func nameList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "(" + strings.Join(names, ", ") + ")"
}
