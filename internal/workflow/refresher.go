package workflow

import (
	"context"
	"encoding/json"

	"dermoscan-be/internal/constant"
	"dermoscan-be/internal/gateway"
	"dermoscan-be/internal/pkg/logger"
	"dermoscan-be/internal/session"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IRefresher prefetches view data in response to the navigator's refresh
// signals. Each signal is consumed exactly once, reacting to the edge rather
// than polling a flag, so a dependent view cannot double-process. The view
// endpoints still load on demand as a fallback; the refresher is the warm
// path, never a correctness requirement.
type IRefresher interface {
	Run(ctx context.Context) error
}

type refresher struct {
	subscriber message.Subscriber
	sessions   *session.Repository
	directory  gateway.IDirectoryGateway
	log        logger.ILogger
}

func NewRefresher(
	subscriber message.Subscriber,
	sessions *session.Repository,
	directory gateway.IDirectoryGateway,
	log logger.ILogger,
) IRefresher {
	return &refresher{
		subscriber: subscriber,
		sessions:   sessions,
		directory:  directory,
		log:        log,
	}
}

// Run subscribes to both signal topics and processes messages until ctx is
// cancelled. The returned error only reflects subscription setup.
func (r *refresher) Run(ctx context.Context) error {
	signedIn, err := r.subscriber.Subscribe(ctx, constant.TopicSignedIn)
	if err != nil {
		return err
	}
	selected, err := r.subscriber.Subscribe(ctx, constant.TopicPatientSelected)
	if err != nil {
		return err
	}

	go func() {
		for msg := range signedIn {
			r.onSignedIn(ctx, msg)
		}
	}()
	go func() {
		for msg := range selected {
			r.onPatientSelected(ctx, msg)
		}
	}()
	return nil
}

func (r *refresher) onSignedIn(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var signal SignedInSignal
	if err := json.Unmarshal(msg.Payload, &signal); err != nil {
		r.log.Error("refresher", "bad signed-in signal", map[string]interface{}{"error": err.Error()})
		return
	}

	s, ok := r.sessions.Get(signal.SessionID)
	if !ok {
		return
	}
	s.Lock()
	defer s.Unlock()

	if s.Patients != nil || !s.SignedIn() {
		return // already loaded, or signed out again since the edge
	}
	rows, err := r.directory.ListPatients(ctx, s.CurrentUser)
	if err != nil {
		r.log.Warn("refresher", "patient list prefetch failed", map[string]interface{}{"error": err.Error()})
		return
	}
	s.Patients = rows
	s.Visible = rows
	r.sessions.Save(s)
	r.log.Debug("refresher", "patient list prefetched", map[string]interface{}{"session_id": s.ID, "rows": len(rows)})
}

func (r *refresher) onPatientSelected(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var signal PatientSelectedSignal
	if err := json.Unmarshal(msg.Payload, &signal); err != nil {
		r.log.Error("refresher", "bad patient-selected signal", map[string]interface{}{"error": err.Error()})
		return
	}

	s, ok := r.sessions.Get(signal.SessionID)
	if !ok {
		return
	}
	s.Lock()
	defer s.Unlock()

	if s.Detail != nil {
		return // selection already hydrated by the synchronous path
	}
	detail, err := r.directory.GetPatientDetail(ctx, signal.RefID, signal.PatientID)
	if err != nil {
		r.log.Warn("refresher", "patient detail prefetch failed", map[string]interface{}{"error": err.Error()})
		return
	}
	s.Detail = detail
	r.sessions.Save(s)
	r.log.Debug("refresher", "patient detail prefetched", map[string]interface{}{"session_id": s.ID, "ref_id": signal.RefID})
}
