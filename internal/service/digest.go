package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/markdown"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/repository"
)

//go:embed templates/*.md
var templateFS embed.FS

var digestTemplate = template.Must(template.ParseFS(templateFS, "templates/weekly_digest.md"))

// Digest is a rendered weekly email.
type Digest struct {
	Subject string
	HTML    string
	Text    string
}

// DigestMailer delivers rendered digests. EmailService is the production
// implementation.
type DigestMailer interface {
	SendDigest(ctx context.Context, email string, digest *Digest) error
}

type digestGoal struct {
	Label   string
	Minutes int
	Target  int
	Percent int
	Met     bool
}

type digestData struct {
	AppName      string
	AppURL       string
	Name         string
	Week         calendar.Window
	WeekMinutes  int
	TodayMinutes int
	Streak       model.StreakState
	Goals        []digestGoal
}

type DigestService struct {
	userService  *UserService
	profileRepo  repository.ProfileRepository
	studyService *StudyService
	goalService  *GoalService
	mailer       DigestMailer
	parser       *markdown.Parser
	appName      string
	appURL       string
}

func NewDigestService(
	userService *UserService,
	profileRepo repository.ProfileRepository,
	studyService *StudyService,
	goalService *GoalService,
	mailer DigestMailer,
	parser *markdown.Parser,
	appName, appURL string,
) *DigestService {
	return &DigestService{
		userService:  userService,
		profileRepo:  profileRepo,
		studyService: studyService,
		goalService:  goalService,
		mailer:       mailer,
		parser:       parser,
		appName:      appName,
		appURL:       appURL,
	}
}

// Render builds the digest for one user from their current week.
func (s *DigestService) Render(userID string) (*Digest, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.studyService.Summary(userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalService.Progress(userID)
	if err != nil {
		return nil, err
	}

	data := digestData{
		AppName:      s.appName,
		AppURL:       s.appURL,
		Name:         profile.Name,
		Week:         summary.Week,
		WeekMinutes:  summary.WeekMinutes,
		TodayMinutes: summary.TodayMinutes,
		Streak:       summary.Streak,
	}
	for _, g := range goals {
		label := "Overall"
		if g.Goal.SubjectName != nil {
			label = *g.Goal.SubjectName
		}
		data.Goals = append(data.Goals, digestGoal{
			Label:   label,
			Minutes: g.CurrentWeekMinutes,
			Target:  g.Goal.WeeklyTargetMinutes,
			Percent: g.WeeklyProgressPercent,
			Met:     g.IsMet,
		})
	}

	var source bytes.Buffer
	if err := digestTemplate.Execute(&source, data); err != nil {
		return nil, fmt.Errorf("failed to execute digest template: %w", err)
	}

	html, meta, err := s.parser.ParseWithFrontmatter(source.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to render digest: %w", err)
	}

	return &Digest{
		Subject: markdown.String(meta, "subject"),
		HTML:    string(html),
		Text:    string(markdown.StripFrontmatter(source.Bytes())),
	}, nil
}

// SendWeekly renders and sends a digest to every user. One user's failure
// does not stop the others; failures are joined into the returned error.
func (s *DigestService) SendWeekly(ctx context.Context) (int, error) {
	users, err := s.userService.All()
	if err != nil {
		return 0, err
	}

	var errs []error
	sent := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		digest, err := s.Render(user.ID)
		if err == nil {
			err = s.mailer.SendDigest(ctx, user.Email, digest)
		}
		if err != nil {
			slog.Error("failed to send weekly digest", "error", err, "user_id", user.ID)
			errs = append(errs, fmt.Errorf("user %s: %w", user.ID, err))
			continue
		}
		sent++
	}

	slog.Info("weekly digests sent", "sent", sent, "failed", len(errs))
	return sent, errors.Join(errs...)
}
