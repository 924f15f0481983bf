package community

import (
	"context"
	"path"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/learner"
)

const messagesCollection = "messages"

var nowFunc = time.Now // mockable

type Service struct {
	store core.DocStore
	log   core.Logger
}

func NewService(store core.DocStore, log core.Logger) *Service {
	return &Service{store: store, log: log}
}

func courseBoard(course string) string {
	return path.Join(messagesCollection, course, "courseMessages")
}

// Post publishes a message on the course board. The document is created with
// a pending timestamp, then stamped with server time once it exists, so
// readers can render in-flight posts as "sending". Blank messages are
// dropped.
func (svc *Service) Post(ctx context.Context, course string, prof learner.Profile, content string) (Message, error) {
	content = core.CleanString(content)
	if content == "" || course == "" {
		return Message{}, nil
	}

	rec := core.Record{
		"sender":    prof.Email,
		"name":      prof.Name,
		"content":   content,
		"timestamp": nil,
	}
	key, err := svc.store.Add(ctx, courseBoard(course), rec)
	if err != nil {
		return Message{}, pkgerrors.Wrapf(err, "posting to %s", course)
	}

	now := nowFunc().UTC()
	if err := svc.store.Update(ctx, key, core.Record{"timestamp": now}); err != nil {
		return Message{}, pkgerrors.Wrapf(err, "stamping message %s", key)
	}

	return Message{
		ID:        path.Base(key),
		Sender:    prof.Email,
		Name:      prof.Name,
		Content:   content,
		Timestamp: &now,
		Mine:      true,
	}, nil
}

// List returns the course board's messages oldest first, flagging the
// viewer's own posts.
func (svc *Service) List(ctx context.Context, course, viewer string) ([]Message, error) {
	viewer = core.CleanString(viewer, true)
	recs, err := svc.store.List(ctx, courseBoard(course), core.ListOptions{
		Order: &core.Ordering{Field: "timestamp", Ascending: true},
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "fetching messages for %s", course)
	}

	msgs := make([]Message, 0, len(recs))
	for _, rec := range recs {
		msg := Message{
			ID:      rec.String("id"),
			Sender:  rec.String("sender"),
			Name:    rec.String("name"),
			Content: rec.String("content"),
			Mine:    rec.String("sender") == viewer,
		}
		if at, ok := rec.Time("timestamp"); ok {
			msg.Timestamp = &at
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
