package web

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	odiff "github.com/r3labs/diff/v3"

	"fairshare/balances"
	ldiff "fairshare/libs/diff"
	"fairshare/mq/mq"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// allow all origins, the API is origin-agnostic
		return true
	},
}

// LiveUpdate is one websocket frame. Changes lists what moved since the
// previous frame; the very first frame has no changes.
type LiveUpdate struct {
	Balances []balances.MemberBalance `json:"balances"`
	Changes  odiff.Changelog          `json:"changes,omitempty"`
}

func (h *Handler) computeBalances(groupID uuid.UUID) ([]balances.MemberBalance, error) {
	members, err := h.DB.GetGroupMembers(groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := h.DB.GetGroupExpenses(groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := h.DB.GetGroupSettlements(groupID)
	if err != nil {
		return nil, err
	}

	coreMembers := ResolveMembers(members, expenses, settlements)
	return balances.MemberBalances(coreMembers, ToCoreExpenses(expenses), ToCoreSettlements(settlements))
}

// subscribeGroupEvents fans every expense and settlement event of the group
// into one notification channel.
func (h *Handler) subscribeGroupEvents(ctx context.Context, groupID uuid.UUID) <-chan struct{} {
	notify := make(chan struct{}, 1)

	forward := func(ch <-chan struct{}) {
		for range ch {
			select {
			case notify <- struct{}{}:
			default:
				// an update is already pending
			}
		}
	}

	for _, action := range []mq.Action{mq.ActionCreate, mq.ActionUpdate, mq.ActionDelete} {
		if q := h.MQ.GetExpenseMessageQueue(action); q != nil {
			ch := make(chan struct{})
			mq.SubscribeProcessor(groupID, ctx, q, func(msg mq.ExpenseMessage) (struct{}, bool, error) {
				return struct{}{}, false, nil
			}, ch)
			go forward(ch)
		}
	}
	for _, action := range []mq.Action{mq.ActionCreate, mq.ActionDelete} {
		if q := h.MQ.GetSettlementMessageQueue(action); q != nil {
			ch := make(chan struct{})
			mq.SubscribeProcessor(groupID, ctx, q, func(msg mq.SettlementMessage) (struct{}, bool, error) {
				return struct{}{}, false, nil
			}, ch)
			go forward(ch)
		}
	}

	return notify
}

// LiveBalances upgrades the request to a websocket and pushes a fresh
// balance snapshot whenever an expense or settlement of the group changes.
func (h *Handler) LiveBalances(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.DB.GetGroupInfo(groupID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for group %s: %v", groupID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Cancel the subscription when the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	notify := h.subscribeGroupEvents(ctx, groupID)

	current, err := h.computeBalances(groupID)
	if err != nil {
		log.Printf("failed to compute balances for group %s: %v", groupID, err)
		return
	}
	if err := conn.WriteJSON(LiveUpdate{Balances: current}); err != nil {
		return
	}

	differ := ldiff.GetCustomDiffer()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-notify:
			if !ok {
				return
			}
			next, err := h.computeBalances(groupID)
			if err != nil {
				log.Printf("failed to recompute balances for group %s: %v", groupID, err)
				continue
			}
			changes, err := differ.Diff(current, next)
			if err != nil {
				log.Printf("failed to diff balances for group %s: %v", groupID, err)
				continue
			}
			if len(changes) == 0 {
				continue
			}
			current = next
			if err := conn.WriteJSON(LiveUpdate{Balances: current, Changes: changes}); err != nil {
				return
			}
		}
	}
}
