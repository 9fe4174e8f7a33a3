package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/logger"
)

const menu = `
1. Analyze Image
2. Generate Image
3. Save Last Response
4. Show History
5. Exit`

const choicePrompt = "Enter your choice (1/2/3/4/5): "

type Prompter interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type Assistant interface {
	Describe(ctx context.Context, imageName string, image []byte) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
	SpeechEnabled() bool
	Speak(ctx context.Context, text string) (*domain.Speech, error)
	Save(ctx context.Context, r domain.SavedResponse) (int64, error)
	History(ctx context.Context) ([]domain.SavedResponse, error)
}

type cli struct {
	assistant Assistant
	prompter  Prompter
	out       io.Writer
	speechDir string
	last      *domain.SavedResponse
}

// New returns a menu loop reading from prompter. Synthesized speech is
// written to speechDir.
func New(assistant Assistant, prompter Prompter, out io.Writer, speechDir string) *cli {
	return &cli{
		assistant: assistant,
		prompter:  prompter,
		out:       out,
		speechDir: speechDir,
	}
}

// NewReadline opens an interactive terminal prompt.
func NewReadline() (*readline.Instance, error) {
	rl, err := readline.New(choicePrompt)
	if err != nil {
		return nil, fmt.Errorf("creating readline: %w", err)
	}
	return rl, nil
}

// Run loops over the menu until the user exits, input ends, or ctx is done.
func (c *cli) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		c.println(menu)

		choice, err := c.read(choicePrompt)
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "1":
			err = c.analyzeImage(ctx)
		case "2":
			err = c.generateImage(ctx)
		case "3":
			c.saveLast(ctx)
		case "4":
			c.showHistory(ctx)
		case "5":
			return nil
		default:
			c.println("Invalid choice. Please try again.")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
	return nil
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
		return nil
	}
	return err
}

func (c *cli) read(prompt string) (string, error) {
	c.prompter.SetPrompt(prompt)
	line, err := c.prompter.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *cli) analyzeImage(ctx context.Context) error {
	path, err := c.read("Enter the path to the image: ")
	if err != nil {
		return err
	}

	image, err := os.ReadFile(path)
	if err != nil {
		c.printf("Error: reading image: %v\n", err)
		return nil
	}

	description, err := c.assistant.Describe(ctx, filepath.Base(path), image)
	if err != nil {
		c.printf("Error: %v\n", err)
		return nil
	}

	c.println(description)
	r := domain.NewAnalysis(filepath.Base(path), description)
	c.last = &r
	c.speak(ctx, description)
	return nil
}

func (c *cli) generateImage(ctx context.Context) error {
	prompt, err := c.read("Enter the prompt for image generation: ")
	if err != nil {
		return err
	}

	imageURL, err := c.assistant.Generate(ctx, prompt)
	if err != nil {
		c.printf("Error: %v\n", err)
		return nil
	}

	c.printf("Generated image URL: %s\n", imageURL)
	if qr, err := qrcode.New(imageURL, qrcode.Medium); err == nil {
		c.println(qr.ToSmallString(false))
	} else {
		slog.WarnContext(ctx, "Encoding QR code", logger.Err(err))
	}

	r := domain.NewGeneration(prompt, imageURL)
	c.last = &r
	c.speak(ctx, "Image generated successfully. You can view it at "+imageURL)
	return nil
}

func (c *cli) saveLast(ctx context.Context) {
	if c.last == nil {
		c.println("Nothing to save yet.")
		return
	}

	id, err := c.assistant.Save(ctx, *c.last)
	if err != nil {
		c.printf("Error: saving response: %v\n", err)
		return
	}

	c.printf("Saved as #%d\n", id)
	c.last = nil
}

func (c *cli) showHistory(ctx context.Context) {
	history, err := c.assistant.History(ctx)
	if err != nil {
		c.printf("Error: loading history: %v\n", err)
		return
	}
	if len(history) == 0 {
		c.println("No saved responses.")
		return
	}

	for _, r := range history {
		subject := r.ImageName
		if r.Kind == domain.ResponseKindGeneration {
			subject = r.Prompt
		}
		c.printf("#%d [%s] %s %s\n  %s\n", r.ID, r.Kind, r.CreatedAt.Format("2006-01-02 15:04"), subject, r.Result)
	}
}

// speak writes the synthesized audio next to the working files; failures only warn.
func (c *cli) speak(ctx context.Context, text string) {
	if !c.assistant.SpeechEnabled() {
		return
	}

	speech, err := c.assistant.Speak(ctx, text)
	if err != nil {
		c.printf("Speech unavailable: %v\n", err)
		return
	}

	path := filepath.Join(c.speechDir, fmt.Sprintf("speech-%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, speech.Content, 0o644); err != nil {
		c.printf("Error: saving speech: %v\n", err)
		return
	}
	c.printf("Speech saved to %s\n", path)
}

func (c *cli) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *cli) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}
