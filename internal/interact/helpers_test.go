package interact

import (
	"testing"
	"time"

	"github.com/kamdyne/embednav/internal/messenger"
	"github.com/stretchr/testify/require"
)

const testChannel = "chan-1"

func user(id string) messenger.Actor {
	return messenger.Actor{ID: id, Name: id}
}

func reactionFrom(actorID, emoji string) messenger.Reaction {
	return messenger.Reaction{Symbol: messenger.Sym(emoji), Actor: user(actorID)}
}

// waitReactionSubs blocks until at least n reaction subscriptions have been
// opened against msgID. Each consumption wait opens a fresh subscription, so
// the count is a reliable ordering point for feeding the n-th event.
func waitReactionSubs(t *testing.T, f *fakeMessenger, msgID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.reactionSubCount(msgID) >= n
	}, 2*time.Second, 2*time.Millisecond, "expected %d reaction subscriptions on %s", n, msgID)
}

func waitTextSubs(t *testing.T, f *fakeMessenger, channelID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.textSubCount(channelID) >= n
	}, 2*time.Second, 2*time.Millisecond, "expected %d text subscriptions on %s", n, channelID)
}

func awaitPageResult(t *testing.T, s *PaginatorSession) PageResult {
	t.Helper()
	select {
	case r := <-s.Terminal():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("pagination session did not terminate")
		return PageResult{}
	}
}

func awaitChoice(t *testing.T, s *SelectorSession) Choice {
	t.Helper()
	select {
	case c := <-s.Chosen():
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("selection session did not resolve")
		return Choice{}
	}
}
