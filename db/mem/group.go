package mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	dbt "fairshare/db/db"
)

// inMemoryGroupDBWrapper is an in-memory implementation of dbt.GroupDBWrapper.
// It keeps every group's collections in maps guarded by one RWMutex and hands
// out copies so callers can never mutate the stored data.
type inMemoryGroupDBWrapper struct {
	groupsInfo map[uuid.UUID]*dbt.GroupInfo
	groupsData map[uuid.UUID]*dbt.GroupData

	mu sync.RWMutex
}

// NewInMemoryGroupDBWrapper creates and returns a new instance of inMemoryGroupDBWrapper.
func NewInMemoryGroupDBWrapper() dbt.GroupDBWrapper {
	return &inMemoryGroupDBWrapper{
		groupsInfo: make(map[uuid.UUID]*dbt.GroupInfo),
		groupsData: make(map[uuid.UUID]*dbt.GroupData),
	}
}

// CreateGroup creates a new group entry in memory.
func (db *inMemoryGroupDBWrapper) CreateGroup(info *dbt.GroupInfo) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.groupsInfo[info.ID]; exists {
		return fmt.Errorf("group with ID %s already exists", info.ID)
	}

	infoCopy := *info
	db.groupsInfo[info.ID] = &infoCopy
	db.groupsData[info.ID] = &dbt.GroupData{
		Members:     []dbt.Member{},
		Expenses:    []dbt.Expense{},
		Settlements: []dbt.Settlement{},
	}
	return nil
}

// CreateGroupExpenses adds a slice of expenses to an existing group.
func (db *inMemoryGroupDBWrapper) CreateGroupExpenses(id uuid.UUID, expenses []dbt.Expense) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	groupData, exists := db.groupsData[id]
	if !exists {
		return fmt.Errorf("group with ID %s not found", id)
	}

	groupData.Expenses = append(groupData.Expenses, expenses...)
	return nil
}

// CreateGroupSettlement records a reimbursement between two group members.
func (db *inMemoryGroupDBWrapper) CreateGroupSettlement(id uuid.UUID, settlement dbt.Settlement) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	groupData, exists := db.groupsData[id]
	if !exists {
		return fmt.Errorf("group with ID %s not found", id)
	}
	if settlement.From == settlement.To {
		return fmt.Errorf("settlement %s pays its own sender", settlement.ID)
	}

	groupData.Settlements = append(groupData.Settlements, settlement)
	return nil
}

// GetGroupInfo retrieves group information by ID.
func (db *inMemoryGroupDBWrapper) GetGroupInfo(id uuid.UUID) (*dbt.GroupInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	info, exists := db.groupsInfo[id]
	if !exists {
		return nil, fmt.Errorf("group info with ID %s not found", id)
	}
	infoCopy := *info
	return &infoCopy, nil
}

// GetGroupExpenses retrieves all expenses for a given group ID.
func (db *inMemoryGroupDBWrapper) GetGroupExpenses(id uuid.UUID) ([]dbt.Expense, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	groupData, exists := db.groupsData[id]
	if !exists {
		return nil, fmt.Errorf("group data with ID %s not found", id)
	}

	expensesCopy := make([]dbt.Expense, len(groupData.Expenses))
	copy(expensesCopy, groupData.Expenses)
	return expensesCopy, nil
}

// GetGroupMembers retrieves the member list for a given group ID.
func (db *inMemoryGroupDBWrapper) GetGroupMembers(id uuid.UUID) ([]dbt.Member, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	groupData, exists := db.groupsData[id]
	if !exists {
		return nil, fmt.Errorf("group data with ID %s not found", id)
	}

	membersCopy := make([]dbt.Member, len(groupData.Members))
	copy(membersCopy, groupData.Members)
	return membersCopy, nil
}

// GetGroupSettlements retrieves all settlements for a given group ID.
func (db *inMemoryGroupDBWrapper) GetGroupSettlements(id uuid.UUID) ([]dbt.Settlement, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	groupData, exists := db.groupsData[id]
	if !exists {
		return nil, fmt.Errorf("group data with ID %s not found", id)
	}

	settlementsCopy := make([]dbt.Settlement, len(groupData.Settlements))
	copy(settlementsCopy, groupData.Settlements)
	return settlementsCopy, nil
}

// GetExpenseShares retrieves the split share list of a single expense.
func (db *inMemoryGroupDBWrapper) GetExpenseShares(expenseID uuid.UUID) ([]dbt.SplitShare, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, groupData := range db.groupsData {
		for _, e := range groupData.Expenses {
			if e.ID == expenseID {
				sharesCopy := make([]dbt.SplitShare, len(e.SplitAmong))
				copy(sharesCopy, e.SplitAmong)
				return sharesCopy, nil
			}
		}
	}
	return nil, fmt.Errorf("expense with ID %s not found", expenseID)
}

// UpdateGroupInfo updates the information of an existing group.
func (db *inMemoryGroupDBWrapper) UpdateGroupInfo(info *dbt.GroupInfo) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.groupsInfo[info.ID]; !exists {
		return fmt.Errorf("group with ID %s not found for update", info.ID)
	}

	infoCopy := *info
	db.groupsInfo[info.ID] = &infoCopy
	return nil
}

// UpdateGroupExpense updates a specific expense and returns the ID of the
// group that owns it.
func (db *inMemoryGroupDBWrapper) UpdateGroupExpense(expense *dbt.Expense) (uuid.UUID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for groupID, groupData := range db.groupsData {
		for i, e := range groupData.Expenses {
			if e.ID == expense.ID {
				groupData.Expenses[i] = *expense
				return groupID, nil
			}
		}
	}
	return uuid.Nil, fmt.Errorf("expense with ID %s not found for update in any group", expense.ID)
}

// GroupMemberAdd adds a member to a group's member list.
func (db *inMemoryGroupDBWrapper) GroupMemberAdd(id uuid.UUID, member dbt.Member) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	groupData, exists := db.groupsData[id]
	if !exists {
		return fmt.Errorf("group with ID %s not found", id)
	}

	for _, m := range groupData.Members {
		if m.ID == member.ID {
			return fmt.Errorf("member %s already exists in group %s", member.ID, id)
		}
	}

	groupData.Members = append(groupData.Members, member)
	return nil
}

// GroupMemberRemove removes a member from a group's member list.
func (db *inMemoryGroupDBWrapper) GroupMemberRemove(id uuid.UUID, memberID uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	groupData, exists := db.groupsData[id]
	if !exists {
		return fmt.Errorf("group with ID %s not found", id)
	}

	foundIdx := -1
	for i, m := range groupData.Members {
		if m.ID == memberID {
			foundIdx = i
			break
		}
	}

	if foundIdx == -1 {
		return fmt.Errorf("member %s not found in group %s", memberID, id)
	}

	groupData.Members = append(groupData.Members[:foundIdx], groupData.Members[foundIdx+1:]...)
	return nil
}

// DeleteGroup deletes a group and all its associated data.
func (db *inMemoryGroupDBWrapper) DeleteGroup(id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.groupsInfo[id]; !exists {
		return fmt.Errorf("group with ID %s not found for deletion", id)
	}

	delete(db.groupsInfo, id)
	delete(db.groupsData, id)
	return nil
}

// DeleteGroupExpense deletes a specific expense and returns the ID of the
// group that owned it.
func (db *inMemoryGroupDBWrapper) DeleteGroupExpense(expenseID uuid.UUID) (uuid.UUID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for groupID, groupData := range db.groupsData {
		for i, e := range groupData.Expenses {
			if e.ID == expenseID {
				groupData.Expenses = append(groupData.Expenses[:i], groupData.Expenses[i+1:]...)
				return groupID, nil
			}
		}
	}
	return uuid.Nil, fmt.Errorf("expense with ID %s not found for deletion", expenseID)
}

// DeleteGroupSettlement deletes a specific settlement and returns the ID of
// the group that owned it.
func (db *inMemoryGroupDBWrapper) DeleteGroupSettlement(settlementID uuid.UUID) (uuid.UUID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for groupID, groupData := range db.groupsData {
		for i, s := range groupData.Settlements {
			if s.ID == settlementID {
				groupData.Settlements = append(groupData.Settlements[:i], groupData.Settlements[i+1:]...)
				return groupID, nil
			}
		}
	}
	return uuid.Nil, fmt.Errorf("settlement with ID %s not found for deletion", settlementID)
}

// DataLoaderGetExpenseList batch-loads expense lists for a set of group IDs.
func (db *inMemoryGroupDBWrapper) DataLoaderGetExpenseList(_ context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]dbt.Expense, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(map[uuid.UUID][]dbt.Expense, len(groupIds))
	for _, id := range groupIds {
		groupData, exists := db.groupsData[id]
		if !exists {
			return nil, fmt.Errorf("group data with ID %s not found", id)
		}
		expensesCopy := make([]dbt.Expense, len(groupData.Expenses))
		copy(expensesCopy, groupData.Expenses)
		result[id] = expensesCopy
	}
	return result, nil
}

// DataLoaderGetMemberList batch-loads member lists for a set of group IDs.
func (db *inMemoryGroupDBWrapper) DataLoaderGetMemberList(_ context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]dbt.Member, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(map[uuid.UUID][]dbt.Member, len(groupIds))
	for _, id := range groupIds {
		groupData, exists := db.groupsData[id]
		if !exists {
			return nil, fmt.Errorf("group data with ID %s not found", id)
		}
		membersCopy := make([]dbt.Member, len(groupData.Members))
		copy(membersCopy, groupData.Members)
		result[id] = membersCopy
	}
	return result, nil
}

// DataLoaderGetSettlementList batch-loads settlement lists for a set of group IDs.
func (db *inMemoryGroupDBWrapper) DataLoaderGetSettlementList(_ context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]dbt.Settlement, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(map[uuid.UUID][]dbt.Settlement, len(groupIds))
	for _, id := range groupIds {
		groupData, exists := db.groupsData[id]
		if !exists {
			return nil, fmt.Errorf("group data with ID %s not found", id)
		}
		settlementsCopy := make([]dbt.Settlement, len(groupData.Settlements))
		copy(settlementsCopy, groupData.Settlements)
		result[id] = settlementsCopy
	}
	return result, nil
}

// DataLoaderGetGroupInfoList batch-loads group infos for a set of group IDs.
func (db *inMemoryGroupDBWrapper) DataLoaderGetGroupInfoList(_ context.Context, groupIds []uuid.UUID) (map[uuid.UUID]*dbt.GroupInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(map[uuid.UUID]*dbt.GroupInfo, len(groupIds))
	for _, id := range groupIds {
		info, exists := db.groupsInfo[id]
		if !exists {
			return nil, fmt.Errorf("group info with ID %s not found", id)
		}
		infoCopy := *info
		result[id] = &infoCopy
	}
	return result, nil
}
