package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
)

// Request describes one puzzle generation job.
type Request struct {
	Day              string
	Difficulty       int // target, 1-10
	PuzzleType       models.PuzzleType
	RequireNovelty   bool
	QualityThreshold int // 0-100, generations scoring below are rejected
}

// Result is a generated puzzle plus generation metadata.
type Result struct {
	Puzzle           models.Puzzle
	QualityScore     int
	UniquenessScore  int
	PromptTokens     int
	CompletionTokens int
	Steps            []models.GenerationStep
}

// Generator produces puzzles through a provider with a bounded retry
// ceiling. It does not fall back itself; callers handle that.
type Generator struct {
	provider    Provider
	maxAttempts int
	log         *logger.Logger
}

func New(provider Provider, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Generator{
		provider:    provider,
		maxAttempts: maxAttempts,
		log:         logger.Default().WithPrefix("generator"),
	}
}

// Provider returns the underlying provider, used for log records.
func (g *Generator) Provider() Provider { return g.provider }

// puzzleDoc is the strict JSON document the provider must return.
type puzzleDoc struct {
	Puzzle          string   `json:"puzzle"`
	Answer          string   `json:"answer"`
	Explanation     string   `json:"explanation"`
	Hints           []string `json:"hints"`
	Difficulty      int      `json:"difficulty"`
	QualityScore    int      `json:"qualityScore"`
	UniquenessScore int      `json:"uniquenessScore"`
}

const systemPrompt = `You are a puzzle author for a daily puzzle game. ` +
	`Respond with a single JSON object containing exactly these keys: ` +
	`puzzle, answer, explanation, hints (array of 3 strings, easiest last), ` +
	`difficulty (1-10), qualityScore (0-100, your honest self-assessment), ` +
	`uniquenessScore (0-100, how unlikely this puzzle is to exist elsewhere). ` +
	`The puzzle text must never contain or spell out the answer.`

func userPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create one %s puzzle with difficulty %d.", req.PuzzleType, req.Difficulty)
	if req.RequireNovelty {
		sb.WriteString(" The puzzle must be novel, not a well-known classic.")
	}
	return sb.String()
}

// Generate runs up to the attempt ceiling and returns the first result
// meeting the quality threshold. When every attempt fails, the last
// error is returned; callers fall back to the static rotation.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("generator").WithField("day", req.Day)

	var steps []models.GenerationStep
	var lastErr error
	var promptTokens, completionTokens int

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		log.Debug("generation attempt %d/%d", attempt, g.maxAttempts)
		start := time.Now()

		completion, err := g.provider.Complete(ctx, systemPrompt, userPrompt(req))
		elapsed := time.Since(start)
		if err != nil {
			lastErr = err
			steps = append(steps, models.GenerationStep{
				Name:       fmt.Sprintf("attempt-%d", attempt),
				DurationMS: elapsed.Milliseconds(),
				Detail:     err.Error(),
			})
			log.Warn("generation attempt %d failed after %v: %v", attempt, elapsed, err)
			continue
		}
		promptTokens += completion.PromptTokens
		completionTokens += completion.CompletionTokens

		doc, err := parsePuzzleDoc(completion.Content)
		if err != nil {
			lastErr = err
			steps = append(steps, models.GenerationStep{
				Name:       fmt.Sprintf("attempt-%d", attempt),
				DurationMS: elapsed.Milliseconds(),
				Detail:     err.Error(),
			})
			log.Warn("generation attempt %d produced invalid document: %v", attempt, err)
			continue
		}

		if doc.QualityScore < req.QualityThreshold {
			lastErr = fmt.Errorf("quality rejected: score %d below threshold %d", doc.QualityScore, req.QualityThreshold)
			steps = append(steps, models.GenerationStep{
				Name:       fmt.Sprintf("attempt-%d", attempt),
				DurationMS: elapsed.Milliseconds(),
				Detail:     lastErr.Error(),
			})
			log.Warn("generation attempt %d below quality threshold: %d < %d",
				attempt, doc.QualityScore, req.QualityThreshold)
			continue
		}

		steps = append(steps, models.GenerationStep{
			Name:       fmt.Sprintf("attempt-%d", attempt),
			DurationMS: elapsed.Milliseconds(),
			Detail:     fmt.Sprintf("accepted quality=%d uniqueness=%d", doc.QualityScore, doc.UniquenessScore),
		})

		difficulty := doc.Difficulty
		if difficulty < 1 || difficulty > 10 {
			difficulty = req.Difficulty
		}

		puzzle := models.Puzzle{
			ID:          models.PuzzleIDForDay(req.Day),
			Day:         req.Day,
			Puzzle:      strings.TrimSpace(doc.Puzzle),
			PuzzleType:  req.PuzzleType,
			Answer:      strings.TrimSpace(doc.Answer),
			Difficulty:  difficulty,
			Explanation: strings.TrimSpace(doc.Explanation),
			Hints:       doc.Hints,
			PublishedAt: time.Now().UTC(),
			Active:      true,
			Source:      models.PuzzleSourceGenerated,
		}
		if puzzle.PuzzleType == models.PuzzleTypeRebus {
			puzzle.RebusPuzzle = puzzle.Puzzle
		}

		log.Info("puzzle generated on attempt %d: quality=%d, uniqueness=%d, tokens=%d",
			attempt, doc.QualityScore, doc.UniquenessScore, promptTokens+completionTokens)
		return &Result{
			Puzzle:           puzzle,
			QualityScore:     doc.QualityScore,
			UniquenessScore:  doc.UniquenessScore,
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			Steps:            steps,
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("generation failed with no attempts executed")
	}
	log.Error("all %d generation attempts failed: %v", g.maxAttempts, lastErr)
	return &Result{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		Steps:            steps,
	}, lastErr
}

func parsePuzzleDoc(content string) (*puzzleDoc, error) {
	// Some providers wrap JSON in markdown fences despite instructions.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var doc puzzleDoc
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("validation: puzzle document is not valid JSON: %w", err)
	}
	if strings.TrimSpace(doc.Puzzle) == "" {
		return nil, fmt.Errorf("validation: puzzle text is empty")
	}
	if strings.TrimSpace(doc.Answer) == "" {
		return nil, fmt.Errorf("validation: answer is empty")
	}
	return &doc, nil
}

// ClassifyError maps a generation error onto the tracking categories by
// inspecting the message.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return models.GenErrQuota
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "context canceled"):
		return models.GenErrTimeout
	case strings.Contains(msg, "validation"):
		return models.GenErrValidation
	case strings.Contains(msg, "quality rejected"):
		return models.GenErrQuality
	case strings.Contains(msg, "provider error"):
		return models.GenErrProvider
	case strings.Contains(msg, "generation"):
		return models.GenErrGeneration
	default:
		return models.GenErrUnknown
	}
}
