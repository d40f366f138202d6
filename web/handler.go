package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fairshare/balances"
	"fairshare/db/db"
	"fairshare/mq/mq"
)

// Handler serves the REST surface on top of the storage wrapper and pushes
// change events to the message queues.
type Handler struct {
	DB db.GroupDBWrapper
	MQ mq.GroupMessageQueueWrapper
}

func NewHandler(dbWrapper db.GroupDBWrapper, mqWrapper mq.GroupMessageQueueWrapper) *Handler {
	return &Handler{
		DB: dbWrapper,
		MQ: mqWrapper,
	}
}

// --- request bodies ---

type NewGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type NewMemberRequest struct {
	Name string `json:"name" binding:"required"`
}

type SplitShareRequest struct {
	MemberID string  `json:"memberId" binding:"required"`
	Value    float64 `json:"value"`
}

type NewExpenseRequest struct {
	Name       string              `json:"name" binding:"required"`
	Amount     float64             `json:"amount" binding:"required"`
	PaidBy     string              `json:"paidBy" binding:"required"`
	SplitType  int                 `json:"splitType"`
	SplitAmong []SplitShareRequest `json:"splitAmong"`
	Category   int                 `json:"category"`
	Time       *string             `json:"time"`
}

type NewSettlementRequest struct {
	From   string  `json:"from" binding:"required"`
	To     string  `json:"to" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Note   string  `json:"note"`
}

// --- helpers ---

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return uuid.Nil, false
	}
	return id, true
}

func getDataLoader(c *gin.Context) (*db.GroupDataLoader, error) {
	loader, ok := c.Value(string(db.DataLoaderKeyGroupData)).(*db.GroupDataLoader)
	if !ok {
		return nil, fmt.Errorf("data loader is not available")
	}
	return loader, nil
}

// loadGroupData fetches the three group collections through the per-request
// data loader so computed endpoints on the same request share one batch.
func (h *Handler) loadGroupData(c *gin.Context, groupID uuid.UUID) ([]db.Member, []db.Expense, []db.Settlement, error) {
	loader, err := getDataLoader(c)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx := c.Request.Context()

	members, err := loader.GetMemberList.Load(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}
	expenses, err := loader.GetExpenseList.Load(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}
	settlements, err := loader.GetSettlementList.Load(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}
	return members, expenses, settlements, nil
}

func (h *Handler) buildExpense(req NewExpenseRequest) (db.Expense, error) {
	paidBy, err := uuid.Parse(req.PaidBy)
	if err != nil {
		return db.Expense{}, fmt.Errorf("invalid paidBy: %w", err)
	}

	var t time.Time
	if req.Time != nil {
		t, err = ParseJSTimestampString(*req.Time)
		if err != nil {
			return db.Expense{}, fmt.Errorf("failed to parse time: %w", err)
		}
	} else {
		t = time.Now()
	}

	expense := db.Expense{
		ExpenseInfo: db.ExpenseInfo{
			Name:      req.Name,
			Amount:    req.Amount,
			Time:      t,
			PaidBy:    paidBy,
			SplitType: req.SplitType,
			Category:  req.Category,
		},
	}
	for _, share := range req.SplitAmong {
		memberID, err := uuid.Parse(share.MemberID)
		if err != nil {
			return db.Expense{}, fmt.Errorf("invalid split member ID %s: %w", share.MemberID, err)
		}
		expense.SplitAmong = append(expense.SplitAmong, db.SplitShare{
			MemberID: memberID,
			Value:    share.Value,
		})
	}
	return expense, nil
}

func (h *Handler) publishExpenseEvent(action mq.Action, groupID uuid.UUID, e db.Expense) {
	q := h.MQ.GetExpenseMessageQueue(action)
	if q == nil {
		return
	}
	_ = q.Publish(mq.ExpenseMessage{
		ID:      e.ID,
		GroupID: groupID,
		Name:    e.Name,
		Amount:  e.Amount,
		PaidBy:  e.PaidBy,
	})
}

func (h *Handler) publishSettlementEvent(action mq.Action, groupID uuid.UUID, s db.Settlement) {
	q := h.MQ.GetSettlementMessageQueue(action)
	if q == nil {
		return
	}
	_ = q.Publish(mq.SettlementMessage{
		ID:      s.ID,
		GroupID: groupID,
		From:    s.From,
		To:      s.To,
		Amount:  s.Amount,
	})
}

// --- group endpoints ---

func (h *Handler) CreateGroup(c *gin.Context) {
	var req NewGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !VerifyStringRequest(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group name"})
		return
	}

	info := &db.GroupInfo{
		ID:   uuid.New(),
		Name: req.Name,
	}
	if err := h.DB.CreateGroup(info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (h *Handler) GetGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	info, err := h.DB.GetGroupInfo(groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	members, err := h.DB.GetGroupMembers(groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      info.ID,
		"name":    info.Name,
		"members": members,
	})
}

func (h *Handler) UpdateGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req NewGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !VerifyStringRequest(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group name"})
		return
	}

	if err := h.DB.UpdateGroupInfo(&db.GroupInfo{ID: groupID, Name: req.Name}); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": groupID, "name": req.Name})
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.DB.DeleteGroup(groupID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": groupID})
}

// --- member endpoints ---

func (h *Handler) AddMember(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req NewMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !VerifyStringRequest(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member name"})
		return
	}

	member := db.Member{
		ID:     uuid.New(),
		Name:   req.Name,
		Active: true,
	}
	if err := h.DB.GroupMemberAdd(groupID, member); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}
	if err := h.DB.GroupMemberRemove(groupID, memberID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": memberID})
}

// --- expense endpoints ---

func (h *Handler) ListExpenses(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	expenses, err := h.DB.GetGroupExpenses(groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req NewExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !VerifyExpenseRequest(req) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense request"})
		return
	}

	expense, err := h.buildExpense(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expense.ID = uuid.New()

	if err := h.DB.CreateGroupExpenses(groupID, []db.Expense{expense}); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.publishExpenseEvent(mq.ActionCreate, groupID, expense)
	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) UpdateExpense(c *gin.Context) {
	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req NewExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !VerifyExpenseRequest(req) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense request"})
		return
	}

	expense, err := h.buildExpense(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expense.ID = expenseID

	groupID, err := h.DB.UpdateGroupExpense(&expense)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.publishExpenseEvent(mq.ActionUpdate, groupID, expense)
	c.JSON(http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groupID, err := h.DB.DeleteGroupExpense(expenseID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.publishExpenseEvent(mq.ActionDelete, groupID, db.Expense{ExpenseInfo: db.ExpenseInfo{ID: expenseID}})
	c.JSON(http.StatusOK, gin.H{"id": expenseID})
}

// --- settlement endpoints ---

func (h *Handler) ListSettlements(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	settlements, err := h.DB.GetGroupSettlements(groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settlements)
}

func (h *Handler) CreateSettlement(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req NewSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !VerifySettlementRequest(req) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settlement request"})
		return
	}

	from, err := uuid.Parse(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return
	}
	to, err := uuid.Parse(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return
	}

	settlement := db.Settlement{
		ID:     uuid.New(),
		From:   from,
		To:     to,
		Amount: req.Amount,
		Time:   time.Now(),
		Note:   req.Note,
	}
	if err := h.DB.CreateGroupSettlement(groupID, settlement); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.publishSettlementEvent(mq.ActionCreate, groupID, settlement)
	c.JSON(http.StatusCreated, settlement)
}

func (h *Handler) DeleteSettlement(c *gin.Context) {
	settlementID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	groupID, err := h.DB.DeleteGroupSettlement(settlementID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.publishSettlementEvent(mq.ActionDelete, groupID, db.Settlement{ID: settlementID})
	c.JSON(http.StatusOK, gin.H{"id": settlementID})
}

// --- computed endpoints ---

func (h *Handler) GetBalances(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, expenses, settlements, err := h.loadGroupData(c, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	coreMembers := ResolveMembers(members, expenses, settlements)
	result, err := balances.MemberBalances(coreMembers, ToCoreExpenses(expenses), ToCoreSettlements(settlements))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetDebts(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, expenses, settlements, err := h.loadGroupData(c, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	coreMembers := ResolveMembers(members, expenses, settlements)
	matrix, err := balances.BuildDebtMatrix(coreMembers, ToCoreExpenses(expenses), ToCoreSettlements(settlements))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, balances.Simplify(matrix, coreMembers))
}

func (h *Handler) GetSuggestions(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, expenses, settlements, err := h.loadGroupData(c, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	coreMembers := ResolveMembers(members, expenses, settlements)
	memberBalances, err := balances.MemberBalances(coreMembers, ToCoreExpenses(expenses), ToCoreSettlements(settlements))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	suggestions, err := balances.Optimize(memberBalances)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

func (h *Handler) GetSummary(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, expenses, settlements, err := h.loadGroupData(c, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	summary := balances.Summarize(ToCoreExpenses(expenses), ToCoreSettlements(settlements), len(members))
	c.JSON(http.StatusOK, summary)
}
