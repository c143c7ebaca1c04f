package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/openlance/openlance/internal/models"
)

func dialBidFeed(t *testing.T, srv *httptest.Server, bidID uint, authorization string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/api/ws/bids/%d", bidID)

	header := http.Header{}
	header.Set("Authorization", authorization)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)

	if resp != nil {
		resp.Body.Close()
	}

	t.Cleanup(func() { conn.Close() })

	// The handler registers the subscriber right after the handshake; give
	// it a moment before triggering events.
	time.Sleep(100 * time.Millisecond)

	return conn
}

func readFeedEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var event map[string]interface{}
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestBidFeedBroadcastsEngagementEvents(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidPending, false)

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialBidFeed(t, srv, f.bid.ID, tokenFor(t, f.bidder))

	w := doJSON(t, r, http.MethodPost, changeStatusPath(f.bid.ID), tokenFor(t, f.owner),
		map[string]string{"status": "IN_PROGRESS"})
	require.Equal(t, http.StatusOK, w.Code)

	event := readFeedEvent(t, conn)
	require.Equal(t, "refresh", event["type"])
	require.Equal(t, "status", event["event"])
	require.EqualValues(t, f.bid.ID, event["bid_id"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/bids/msg/%d", f.bid.ID), tokenFor(t, f.owner),
		map[string]string{"msg": "see you on Monday"})
	require.Equal(t, http.StatusOK, w.Code)

	event = readFeedEvent(t, conn)
	require.Equal(t, "refresh", event["type"])
	require.Equal(t, "message", event["event"])
}

func TestBidFeedDeniesStranger(t *testing.T) {
	gdb, r := newTestApp(t)
	f := seed(t, gdb, models.BidInProgress, models.BidPending, false)

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/api/ws/bids/%d", f.bid.ID)

	header := http.Header{}
	header.Set("Authorization", tokenFor(t, f.stranger))

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.Nil(t, conn)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
