package db

import (
	"context"

	"github.com/google/uuid"
)

type GroupDBWrapper interface {
	// Create
	CreateGroup(info *GroupInfo) error
	CreateGroupExpenses(id uuid.UUID, expenses []Expense) error
	CreateGroupSettlement(id uuid.UUID, settlement Settlement) error
	// Read
	GetGroupInfo(id uuid.UUID) (*GroupInfo, error)
	GetGroupExpenses(id uuid.UUID) ([]Expense, error)
	GetGroupMembers(id uuid.UUID) ([]Member, error)
	GetGroupSettlements(id uuid.UUID) ([]Settlement, error)
	GetExpenseShares(expenseID uuid.UUID) ([]SplitShare, error)
	// Update
	UpdateGroupInfo(info *GroupInfo) error
	UpdateGroupExpense(expense *Expense) (uuid.UUID, error)
	GroupMemberAdd(id uuid.UUID, member Member) error
	GroupMemberRemove(id uuid.UUID, memberID uuid.UUID) error
	// Delete
	DeleteGroup(id uuid.UUID) error
	DeleteGroupExpense(expenseID uuid.UUID) (uuid.UUID, error)
	DeleteGroupSettlement(settlementID uuid.UUID) (uuid.UUID, error)
	// Data Loader
	DataLoaderGetExpenseList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]Expense, error)
	DataLoaderGetMemberList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]Member, error)
	DataLoaderGetSettlementList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]Settlement, error)
	DataLoaderGetGroupInfoList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID]*GroupInfo, error)
}
