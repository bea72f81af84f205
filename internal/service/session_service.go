package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tot-logger/visit-log-api/internal/models"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
)

type sessionLogRepository interface {
	ListByAuthor(ctx context.Context, authorID string) ([]models.LogEntry, error)
	FindByID(ctx context.Context, id string) (*models.LogEntry, error)
	Create(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error)
	Update(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error)
}

type sessionStore interface {
	Get(ctx context.Context, userID string) (*models.InputSession, error)
	Save(ctx context.Context, userID string, session *models.InputSession) error
	Delete(ctx context.Context, userID string) error
}

type reportPublisher interface {
	IsPublished(ctx context.Context, authorID, date string) (bool, error)
	EnqueueRepublish(authorID, date string)
}

type changeNotifier interface {
	LogsChanged(ctx context.Context, userID string)
}

// SessionService owns the input draft state machine. Transitions that hit a
// caution return a Confirmation instead of applying; the caller resolves it
// and re-invokes with confirm set. A pending confirmation is plain data, so
// concurrent events cannot observe a half-applied draft.
type SessionService struct {
	logs      sessionLogRepository
	store     sessionStore
	schedule  *ScheduleService
	recommend *RecommendationService
	publisher reportPublisher
	notifier  changeNotifier
	logger    *zap.Logger
}

// NewSessionService constructs the service.
func NewSessionService(logs sessionLogRepository, store sessionStore, schedule *ScheduleService, recommend *RecommendationService, publisher reportPublisher, notifier changeNotifier, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		logs:      logs,
		store:     store,
		schedule:  schedule,
		recommend: recommend,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// Get returns the user's current draft, creating a fresh one when none exists.
func (s *SessionService) Get(ctx context.Context, userID string) (*models.InputSession, error) {
	return s.current(ctx, userID)
}

func (s *SessionService) current(ctx context.Context, userID string) (*models.InputSession, error) {
	session, err := s.store.Get(ctx, userID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return s.initialize(ctx, userID, today())
}

// initialize seeds a draft for the date: next count, suspension list carried
// over from the day's latest entry, special flag from the schedule.
func (s *SessionService) initialize(ctx context.Context, userID, date string) (*models.InputSession, error) {
	entries, err := s.listEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := &models.InputSession{
		Phase:          models.PhaseEmpty,
		Date:           date,
		Count:          NextCount(date, entries),
		SuspendedTours: []models.Tour{},
		IsSpecial:      s.schedule.IsSpecialPeriod(date),
	}

	for _, entry := range DisplayOrder(entries) {
		if entry.Date != date {
			continue
		}
		for _, raw := range entry.Suspended {
			if tour := models.Tour(raw); tour.Valid() {
				session.SuspendedTours = append(session.SuspendedTours, tour)
			}
		}
		break
	}

	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// StartNew clears the draft for the next entry on the same date. The pending
// suspension list survives unless clearSuspended is set.
func (s *SessionService) StartNew(ctx context.Context, userID string, clearSuspended bool) (*models.InputSession, error) {
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.resetDraft(ctx, userID, session, clearSuspended); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) resetDraft(ctx context.Context, userID string, session *models.InputSession, clearSuspended bool) error {
	entries, err := s.listEntries(ctx, userID)
	if err != nil {
		return err
	}

	session.EditingID = ""
	session.Count = NextCount(session.Date, entries)
	session.Floor = 0
	session.Tour = ""
	session.Vehicle = ""
	session.Profile = ""
	session.Memo = ""
	session.Time = ""
	if clearSuspended {
		session.SuspendedTours = []models.Tour{}
	}
	s.refreshPhase(session)
	return s.save(ctx, userID, session)
}

// ChangeDate moves the draft to another date. This always resets the draft
// and clears the suspension list.
func (s *SessionService) ChangeDate(ctx context.Context, userID, date string, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !confirm {
		return nil, models.NewConfirmation(models.ConfirmDateReset,
			"change the date? the current input will be reset"), nil
	}

	session.Date = date
	session.IsSpecial = s.schedule.IsSpecialPeriod(date)
	if err := s.resetDraft(ctx, userID, session, true); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// StartEdit loads an existing entry into the draft, discarding current input.
func (s *SessionService) StartEdit(ctx context.Context, userID, entryID string, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	entry, err := s.logs.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrStaleReference, "entry no longer exists")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}
	if entry.AuthorID != userID {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "entry belongs to another user")
	}

	if !confirm {
		message := "open edit mode? the current input will be discarded"
		if published, perr := s.publisher.IsPublished(ctx, userID, entry.Date); perr == nil && published {
			message += " (this day is published; changes will update the shared board)"
		}
		return nil, models.NewConfirmation(models.ConfirmDiscardDraft, message), nil
	}

	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	session.Phase = models.PhaseEditing
	session.EditingID = entry.ID
	session.Date = entry.Date
	session.Time = entry.Time
	session.Count = entry.Count
	session.Floor = entry.Floor
	session.Tour = entry.Tour
	session.Vehicle = entry.Vehicle
	session.Profile = entry.Profile
	session.Memo = entry.Memo
	session.IsSpecial = entry.IsSpecial
	session.SuspendedTours = []models.Tour{}
	for _, raw := range entry.Suspended {
		if tour := models.Tour(raw); tour.Valid() {
			session.SuspendedTours = append(session.SuspendedTours, tour)
		}
	}

	if err := s.save(ctx, userID, session); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// SelectFloor toggles the floor selection.
func (s *SessionService) SelectFloor(ctx context.Context, userID string, floor models.Floor) (*models.InputSession, error) {
	if !floor.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "floor must be 1 or 2")
	}
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Floor == floor {
		session.Floor = 0
	} else {
		session.Floor = floor
	}
	s.refreshPhase(session)
	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectTour toggles the tour selection. Selecting a tour recorded as
// suspended asks for confirmation and reactivates it; a fresh selection
// resets the profile to the recommendation default.
func (s *SessionService) SelectTour(ctx context.Context, userID string, tour models.Tour, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	if !tour.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown tour")
	}
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.listEntries(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	state := AggregateDailyState(session.Date, SubmissionOrder(entries), session.EditingID)

	if !session.Editing() && session.Tour != tour && (state.Suspended[tour] || session.HasSuspended(tour)) {
		if !confirm {
			return nil, models.NewConfirmation(models.ConfirmReactivateTour,
				fmt.Sprintf("tour %s is recorded as suspended today; record this ride as a restart?", tour)), nil
		}
		session.RemoveSuspended(tour)
	}

	if session.Tour == tour {
		session.Tour = ""
	} else {
		session.Tour = tour
		analysis := s.recommend.AnalyzeProfile(session.Date, tour, state)
		session.Profile = analysis.DefaultProfile
	}

	s.refreshPhase(session)
	if err := s.save(ctx, userID, session); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// SelectProfile sets the profile, confirming contradictions against the
// tour's established same-day history.
func (s *SessionService) SelectProfile(ctx context.Context, userID string, profile models.Profile, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	if !profile.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown profile")
	}
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if !session.Editing() && session.Tour.Valid() {
		entries, lerr := s.listEntries(ctx, userID)
		if lerr != nil {
			return nil, nil, lerr
		}
		state := AggregateDailyState(session.Date, SubmissionOrder(entries), session.EditingID)
		established := state.ShaftHistory[session.Tour]
		if established != "" && established != models.ProfileUnknown && established != profile && !confirm {
			return nil, models.NewConfirmation(models.ConfirmProfileContradicted,
				fmt.Sprintf("tour %s is already recorded as %q; change to %q?", session.Tour, established.Label(), profile.Label())), nil
		}
	}

	session.Profile = profile
	s.refreshPhase(session)
	if err := s.save(ctx, userID, session); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// SelectVehicle toggles the vehicle selection. Conflicting numbers require
// confirmation; the overflow choice requires the actual number as free text.
func (s *SessionService) SelectVehicle(ctx context.Context, userID string, num int, freeText string, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	if num < 1 || num > models.OverflowVehicle {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "vehicle number out of range")
	}
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if s.deselects(session, num) {
		session.Vehicle = ""
		s.refreshPhase(session)
		if err := s.save(ctx, userID, session); err != nil {
			return nil, nil, err
		}
		return session, nil, nil
	}

	if !session.Editing() {
		entries, lerr := s.listEntries(ctx, userID)
		if lerr != nil {
			return nil, nil, lerr
		}
		state := AggregateDailyState(session.Date, SubmissionOrder(entries), session.EditingID)
		analysis := s.recommend.AnalyzeVehicle(num, session.Room(), state.Assignments, false)
		if analysis.Conflict && !confirm {
			return nil, models.NewConfirmation(analysis.Code, analysis.Message), nil
		}
	}

	if num == models.OverflowVehicle {
		trimmed := strings.TrimSpace(freeText)
		if trimmed == "" {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "the actual vehicle number is required for 9 or higher")
		}
		session.Vehicle = trimmed
	} else {
		session.Vehicle = strconv.Itoa(num)
	}

	s.refreshPhase(session)
	if err := s.save(ctx, userID, session); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// ToggleSuspend adds or removes a tour from the pending suspension list.
// Adding asks for confirmation, with stronger wording when the tour is the
// draft's own active selection.
func (s *SessionService) ToggleSuspend(ctx context.Context, userID string, tour models.Tour, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	if !tour.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown tour")
	}
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if session.HasSuspended(tour) {
		session.RemoveSuspended(tour)
	} else {
		if !confirm {
			code := models.ConfirmSuspendTour
			message := fmt.Sprintf("mark tour %s as suspended?", tour)
			if session.Tour == tour {
				code = models.ConfirmSuspendActiveTour
				message = fmt.Sprintf("tour %s is your current selection; mark it as suspended anyway?", tour)
			}
			return nil, models.NewConfirmation(code, message), nil
		}
		session.SuspendedTours = append(session.SuspendedTours, tour)
	}

	s.refreshPhase(session)
	if err := s.save(ctx, userID, session); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// AdjustCount shifts the sequence number, never below one.
func (s *SessionService) AdjustCount(ctx context.Context, userID string, delta int) (*models.InputSession, error) {
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Count += delta
	if session.Count < 1 {
		session.Count = 1
	}
	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetMemo stores the free-text memo.
func (s *SessionService) SetMemo(ctx context.Context, userID, memo string) (*models.InputSession, error) {
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Memo = memo
	s.refreshPhase(session)
	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetTime records the optional clock time; empty clears it.
func (s *SessionService) SetTime(ctx context.Context, userID, clock string) (*models.InputSession, error) {
	if clock != "" {
		if _, err := time.Parse("15:04", clock); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid time format, expected HH:MM")
		}
	}
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Time = clock
	s.refreshPhase(session)
	if err := s.save(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetSpecial flips the special-period flag. Turning it on outside a known
// special period asks for confirmation.
func (s *SessionService) SetSpecial(ctx context.Context, userID string, on, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if on && !s.schedule.IsSpecialPeriod(session.Date) && !confirm {
		return nil, models.NewConfirmation(models.ConfirmSpecialOutOfPeriod,
			"this date looks outside any special program period; mark it as special anyway?"), nil
	}
	session.IsSpecial = on
	if err := s.save(ctx, userID, session); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// Submit validates and persists the draft as a new or updated entry, then
// restarts the draft for the next count. Acks carry the confirmation codes
// the user has already approved; the first unapproved gate is returned.
// Persistence failure leaves the draft untouched so submit can be retried.
func (s *SessionService) Submit(ctx context.Context, userID string, author models.Author, acks []string) (*models.LogEntry, *models.Confirmation, error) {
	session, err := s.current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if !session.Floor.Valid() || !session.Tour.Valid() || !session.Profile.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "floor, tour and profile must be selected")
	}

	if session.Vehicle == "" && !acked(acks, models.ConfirmVehicleEmpty) {
		return nil, models.NewConfirmation(models.ConfirmVehicleEmpty,
			"no vehicle number is selected; record it as unknown?"), nil
	}

	if !session.Editing() {
		if confirmation := s.creationGates(session, acks); confirmation != nil {
			return nil, confirmation, nil
		}
	}

	entry := &models.LogEntry{
		ID:               session.EditingID,
		Date:             session.Date,
		Time:             session.Time,
		Count:            session.Count,
		Floor:            session.Floor,
		Tour:             session.Tour,
		Vehicle:          session.Vehicle,
		Profile:          session.Profile,
		Suspended:        tourStrings(session.SuspendedTours),
		Memo:             session.Memo,
		IsSpecial:        session.IsSpecial,
		AuthorID:         author.ID,
		AuthorName:       author.Name,
		AuthorAvatarURL:  author.AvatarURL,
		AuthorScreenName: author.ScreenName,
	}

	var stored *models.LogEntry
	if session.Editing() {
		stored, err = s.logs.Update(ctx, entry)
		if errors.Is(err, sql.ErrNoRows) {
			// The entry was deleted while the edit was in progress.
			return nil, nil, appErrors.Clone(appErrors.ErrStaleReference, "the entry being edited no longer exists")
		}
	} else {
		stored, err = s.logs.Create(ctx, entry)
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save entry")
	}

	s.notifier.LogsChanged(ctx, userID)
	if published, perr := s.publisher.IsPublished(ctx, userID, stored.Date); perr == nil && published {
		s.publisher.EnqueueRepublish(userID, stored.Date)
	}

	if err := s.resetDraft(ctx, userID, session, false); err != nil {
		// The entry is saved; a draft reset failure only costs the next count.
		s.logger.Warn("draft reset after submit failed", zap.String("user_id", userID), zap.Error(err))
	}
	return stored, nil, nil
}

// creationGates holds the extra confirmations that apply to new entries only.
func (s *SessionService) creationGates(session *models.InputSession, acks []string) *models.Confirmation {
	if !session.IsSpecial &&
		session.Profile != models.ProfileStandard && session.Profile != models.ProfileUnknown &&
		!acked(acks, models.ConfirmSpecialOffProfile) {
		return models.NewConfirmation(models.ConfirmSpecialOffProfile,
			"the special-period flag is off but a drop profile variant is selected; record it as is?")
	}

	if parsed, err := time.Parse("2006-01-02", session.Date); err == nil {
		if !session.IsSpecial &&
			!s.schedule.HasYearDefinition(parsed.Year()) &&
			int(parsed.Month()) <= s.schedule.FallbackMonthEnd() &&
			!acked(acks, models.ConfirmEarlySeason) {
			return models.NewConfirmation(models.ConfirmEarlySeason,
				"early-year dates may fall in a special program period; record as the standard program?")
		}
	}
	return nil
}

// Cancel discards the in-progress edit and restarts the draft.
func (s *SessionService) Cancel(ctx context.Context, userID string) (*models.InputSession, error) {
	return s.StartNew(ctx, userID, false)
}

func (s *SessionService) deselects(session *models.InputSession, num int) bool {
	if session.Vehicle == "" {
		return false
	}
	if session.Vehicle == strconv.Itoa(num) {
		return true
	}
	// The overflow button covers every stored value of 9 or higher.
	if num == models.OverflowVehicle {
		if v, err := strconv.Atoi(session.Vehicle); err == nil && v >= models.OverflowVehicle {
			return true
		}
	}
	return false
}

func (s *SessionService) refreshPhase(session *models.InputSession) {
	if session.EditingID != "" {
		session.Phase = models.PhaseEditing
		return
	}
	if session.Floor != 0 || session.Tour != "" || session.Vehicle != "" ||
		session.Profile != "" || session.Memo != "" || session.Time != "" {
		session.Phase = models.PhaseDrafting
		return
	}
	session.Phase = models.PhaseEmpty
}

func (s *SessionService) listEntries(ctx context.Context, userID string) ([]models.LogEntry, error) {
	entries, err := s.logs.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load log entries")
	}
	return entries, nil
}

func (s *SessionService) save(ctx context.Context, userID string, session *models.InputSession) error {
	if err := s.store.Save(ctx, userID, session); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}
	return nil
}

func acked(acks []string, code string) bool {
	for _, a := range acks {
		if a == code {
			return true
		}
	}
	return false
}

func tourStrings(tours []models.Tour) []string {
	out := make([]string, 0, len(tours))
	for _, t := range tours {
		out = append(out, string(t))
	}
	return out
}
