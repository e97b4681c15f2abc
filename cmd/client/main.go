package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrianliechti/studio/pkg/client"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8000", "server url")
	tokenFlag := flag.String("token", "", "server token")

	languagesFlag := flag.String("languages", "spanish", "target languages")
	formatsFlag := flag.String("formats", "docx,pdf,epub", "output formats")

	outputFlag := flag.String("output", ".", "output directory")
	intervalFlag := flag.Duration("interval", time.Second, "status poll interval")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: client [flags] <file>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	c := client.New(*urlFlag, options...)

	if err := translate(ctx, c, flag.Arg(0), split(*languagesFlag), split(*formatsFlag), *outputFlag, *intervalFlag); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func translate(ctx context.Context, c *client.Client, path string, languages, formats []string, output string, interval time.Duration) error {
	f, err := os.Open(path)

	if err != nil {
		return err
	}

	defer f.Close()

	id, err := c.Jobs.New(ctx, client.JobRequest{
		Name:   filepath.Base(path),
		Reader: f,

		Languages: languages,
		Formats:   formats,
	})

	if err != nil {
		return err
	}

	fmt.Println("Job: " + id)

	job, err := c.Jobs.Wait(ctx, id, interval, func(j *client.Job) {
		fmt.Printf("\r%3d%% %-12s %s", j.Progress, j.Status, j.Message)
	})

	fmt.Println()

	if err != nil {
		return err
	}

	if job.Error {
		return fmt.Errorf("job failed: %s", job.Message)
	}

	for _, language := range job.Languages {
		for _, format := range job.Formats {
			name, err := download(ctx, c, id, strings.ToLower(language), format, output)

			if err != nil {
				return err
			}

			fmt.Println("Saved: " + name)
		}
	}

	return nil
}

func download(ctx context.Context, c *client.Client, id, language, format, output string) (string, error) {
	d, err := c.Downloads.New(ctx, id, language, format)

	if err != nil {
		return "", err
	}

	defer d.Content.Close()

	name := filepath.Join(output, filepath.Base(d.Name))

	f, err := os.Create(name)

	if err != nil {
		return "", err
	}

	defer f.Close()

	if _, err := io.Copy(f, d.Content); err != nil {
		return "", err
	}

	return name, nil
}

func split(val string) []string {
	var result []string

	for part := range strings.SplitSeq(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}

	return result
}
