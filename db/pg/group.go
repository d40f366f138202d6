package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbt "fairshare/db/db"
)

// GORMGroupDBWrapper is a GORM-based PostgreSQL implementation of dbt.GroupDBWrapper.
type GORMGroupDBWrapper struct {
	db *gorm.DB
}

// NewGORMGroupDBWrapper creates and returns a new instance of GORMGroupDBWrapper.
func NewGORMGroupDBWrapper(db *gorm.DB) dbt.GroupDBWrapper {
	return &GORMGroupDBWrapper{
		db: db,
	}
}

func expenseFromModels(em ExpenseModel, shares []ExpenseShareModel) dbt.Expense {
	expense := dbt.Expense{
		ExpenseInfo: dbt.ExpenseInfo{
			ID:        em.ID,
			Name:      em.Name,
			Amount:    em.Amount,
			Time:      em.Time,
			PaidBy:    em.PaidBy,
			SplitType: em.SplitType,
			Category:  em.Category,
		},
	}
	for _, sm := range shares {
		expense.SplitAmong = append(expense.SplitAmong, dbt.SplitShare{
			MemberID: sm.MemberID,
			Value:    sm.Value,
		})
	}
	return expense
}

func settlementFromModel(sm SettlementModel) dbt.Settlement {
	return dbt.Settlement{
		ID:     sm.ID,
		From:   sm.From,
		To:     sm.To,
		Amount: sm.Amount,
		Time:   sm.Time,
		Note:   sm.Note,
	}
}

// CreateGroup creates a new group entry using GORM.
func (pgdb *GORMGroupDBWrapper) CreateGroup(info *dbt.GroupInfo) error {
	groupModel := GroupInfoModel{
		ID:   info.ID,
		Name: info.Name,
	}
	result := pgdb.db.Create(&groupModel)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "duplicate key value violates unique constraint") {
			return fmt.Errorf("group with ID %s already exists: %w", info.ID, result.Error)
		}
		return fmt.Errorf("failed to create group: %w", result.Error)
	}
	return nil
}

// CreateGroupExpenses adds a slice of expenses to an existing group using GORM.
// Expense rows and their share rows go in one transaction.
func (pgdb *GORMGroupDBWrapper) CreateGroupExpenses(id uuid.UUID, expenses []dbt.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	var expenseModels []ExpenseModel
	var shareModels []ExpenseShareModel
	for _, expense := range expenses {
		expenseModels = append(expenseModels, ExpenseModel{
			ID:        expense.ID,
			GroupID:   id,
			Name:      expense.Name,
			Amount:    expense.Amount,
			Time:      expense.Time,
			PaidBy:    expense.PaidBy,
			SplitType: expense.SplitType,
			Category:  expense.Category,
		})
		for _, share := range expense.SplitAmong {
			shareModels = append(shareModels, ExpenseShareModel{
				ExpenseID: expense.ID,
				GroupID:   id,
				MemberID:  share.MemberID,
				Value:     share.Value,
			})
		}
	}

	err := pgdb.db.Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&expenseModels); result.Error != nil {
			return result.Error
		}
		if len(shareModels) > 0 {
			if result := tx.Create(&shareModels); result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			return fmt.Errorf("group with ID %s not found for creating expenses: %w", id, err)
		}
		return fmt.Errorf("failed to create expenses for group %s: %w", id, err)
	}
	return nil
}

// CreateGroupSettlement records a reimbursement between two group members using GORM.
func (pgdb *GORMGroupDBWrapper) CreateGroupSettlement(id uuid.UUID, settlement dbt.Settlement) error {
	if settlement.From == settlement.To {
		return fmt.Errorf("settlement %s pays its own sender", settlement.ID)
	}

	settlementModel := SettlementModel{
		ID:      settlement.ID,
		GroupID: id,
		From:    settlement.From,
		To:      settlement.To,
		Amount:  settlement.Amount,
		Time:    settlement.Time,
		Note:    settlement.Note,
	}
	result := pgdb.db.Create(&settlementModel)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "violates foreign key constraint") {
			return fmt.Errorf("group with ID %s not found for creating settlement: %w", id, result.Error)
		}
		return fmt.Errorf("failed to create settlement for group %s: %w", id, result.Error)
	}
	return nil
}

// GetGroupInfo retrieves group information by ID using GORM.
func (pgdb *GORMGroupDBWrapper) GetGroupInfo(id uuid.UUID) (*dbt.GroupInfo, error) {
	var groupInfoModel GroupInfoModel
	result := pgdb.db.First(&groupInfoModel, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("group info with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get group info for ID %s: %w", id, result.Error)
	}
	return &dbt.GroupInfo{
		ID:   groupInfoModel.ID,
		Name: groupInfoModel.Name,
	}, nil
}

// GetGroupExpenses retrieves all expenses for a given group ID using GORM.
func (pgdb *GORMGroupDBWrapper) GetGroupExpenses(id uuid.UUID) ([]dbt.Expense, error) {
	var expenseModels []ExpenseModel
	result := pgdb.db.Where("group_id = ?", id).Find(&expenseModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get expenses for group ID %s: %w", id, result.Error)
	}

	var shareModels []ExpenseShareModel
	result = pgdb.db.Where("group_id = ?", id).Find(&shareModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get expense shares for group ID %s: %w", id, result.Error)
	}

	sharesByExpense := make(map[uuid.UUID][]ExpenseShareModel)
	for _, sm := range shareModels {
		sharesByExpense[sm.ExpenseID] = append(sharesByExpense[sm.ExpenseID], sm)
	}

	var expenses []dbt.Expense
	for _, em := range expenseModels {
		expenses = append(expenses, expenseFromModels(em, sharesByExpense[em.ID]))
	}
	return expenses, nil
}

// GetGroupMembers retrieves the member list for a given group ID using GORM.
func (pgdb *GORMGroupDBWrapper) GetGroupMembers(id uuid.UUID) ([]dbt.Member, error) {
	var memberModels []MemberModel
	result := pgdb.db.Where("group_id = ?", id).Find(&memberModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get members for group ID %s: %w", id, result.Error)
	}

	var members []dbt.Member
	for _, mm := range memberModels {
		members = append(members, dbt.Member{
			ID:     mm.ID,
			Name:   mm.Name,
			Active: mm.Active,
		})
	}
	return members, nil
}

// GetGroupSettlements retrieves all settlements for a given group ID using GORM.
func (pgdb *GORMGroupDBWrapper) GetGroupSettlements(id uuid.UUID) ([]dbt.Settlement, error) {
	var settlementModels []SettlementModel
	result := pgdb.db.Where("group_id = ?", id).Find(&settlementModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get settlements for group ID %s: %w", id, result.Error)
	}

	var settlements []dbt.Settlement
	for _, sm := range settlementModels {
		settlements = append(settlements, settlementFromModel(sm))
	}
	return settlements, nil
}

// GetExpenseShares retrieves the split share list of a single expense using GORM.
func (pgdb *GORMGroupDBWrapper) GetExpenseShares(expenseID uuid.UUID) ([]dbt.SplitShare, error) {
	var expenseModel ExpenseModel
	result := pgdb.db.Select("id").First(&expenseModel, "id = ?", expenseID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("expense with ID %s not found", expenseID)
		}
		return nil, fmt.Errorf("failed to get expense with ID %s: %w", expenseID, result.Error)
	}

	var shareModels []ExpenseShareModel
	result = pgdb.db.Where("expense_id = ?", expenseID).Find(&shareModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get shares for expense ID %s: %w", expenseID, result.Error)
	}

	var shares []dbt.SplitShare
	for _, sm := range shareModels {
		shares = append(shares, dbt.SplitShare{
			MemberID: sm.MemberID,
			Value:    sm.Value,
		})
	}
	return shares, nil
}

// UpdateGroupInfo updates the information of an existing group using GORM.
func (pgdb *GORMGroupDBWrapper) UpdateGroupInfo(info *dbt.GroupInfo) error {
	result := pgdb.db.Model(&GroupInfoModel{}).Where("id = ?", info.ID).Update("name", info.Name)
	if result.Error != nil {
		return fmt.Errorf("failed to update group info for ID %s: %w", info.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("group with ID %s not found for update", info.ID)
	}
	return nil
}

// UpdateGroupExpense updates a specific expense and returns the ID of the
// group that owns it. The share list is replaced wholesale.
func (pgdb *GORMGroupDBWrapper) UpdateGroupExpense(expense *dbt.Expense) (uuid.UUID, error) {
	var existing ExpenseModel
	result := pgdb.db.Select("id", "group_id").First(&existing, "id = ?", expense.ID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return uuid.Nil, fmt.Errorf("expense with ID %s not found for update", expense.ID)
		}
		return uuid.Nil, fmt.Errorf("failed to get expense with ID %s: %w", expense.ID, result.Error)
	}
	groupID := existing.GroupID

	expenseModel := ExpenseModel{
		ID:        expense.ID,
		Name:      expense.Name,
		Amount:    expense.Amount,
		Time:      expense.Time,
		PaidBy:    expense.PaidBy,
		SplitType: expense.SplitType,
		Category:  expense.Category,
	}

	err := pgdb.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&expenseModel).
			Select("name", "amount", "time", "paid_by", "split_type", "category").
			Where("id = ?", expense.ID).
			Updates(expenseModel)
		if result.Error != nil {
			return result.Error
		}
		if result := tx.Where("expense_id = ?", expense.ID).Delete(&ExpenseShareModel{}); result.Error != nil {
			return result.Error
		}
		if len(expense.SplitAmong) > 0 {
			var shareModels []ExpenseShareModel
			for _, share := range expense.SplitAmong {
				shareModels = append(shareModels, ExpenseShareModel{
					ExpenseID: expense.ID,
					GroupID:   groupID,
					MemberID:  share.MemberID,
					Value:     share.Value,
				})
			}
			if result := tx.Create(&shareModels); result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to update expense with ID %s: %w", expense.ID, err)
	}
	return groupID, nil
}

// GroupMemberAdd adds a member to a group's member list using GORM.
func (pgdb *GORMGroupDBWrapper) GroupMemberAdd(id uuid.UUID, member dbt.Member) error {
	memberModel := MemberModel{
		ID:      member.ID,
		GroupID: id,
		Name:    member.Name,
		Active:  member.Active,
	}
	result := pgdb.db.Create(&memberModel)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "duplicate key value violates unique constraint") {
			return fmt.Errorf("member %s already exists in group %s", member.ID, id)
		}
		if strings.Contains(result.Error.Error(), "violates foreign key constraint") {
			return fmt.Errorf("group with ID %s not found: %w", id, result.Error)
		}
		return fmt.Errorf("failed to add member %s to group %s: %w", member.ID, id, result.Error)
	}
	return nil
}

// GroupMemberRemove removes a member from a group's member list using GORM.
func (pgdb *GORMGroupDBWrapper) GroupMemberRemove(id uuid.UUID, memberID uuid.UUID) error {
	result := pgdb.db.Where("group_id = ? AND id = ?", id, memberID).Delete(&MemberModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove member %s from group %s: %w", memberID, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("member %s not found in group %s", memberID, id)
	}
	return nil
}

// DeleteGroup deletes a group and all its associated data using GORM.
// ON DELETE CASCADE in the schema removes members, expenses, shares and
// settlements along with the group row.
func (pgdb *GORMGroupDBWrapper) DeleteGroup(id uuid.UUID) error {
	result := pgdb.db.Delete(&GroupInfoModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete group with ID %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("group with ID %s not found for deletion", id)
	}
	return nil
}

// DeleteGroupExpense deletes a specific expense and returns the ID of the
// group that owned it.
func (pgdb *GORMGroupDBWrapper) DeleteGroupExpense(expenseID uuid.UUID) (uuid.UUID, error) {
	var existing ExpenseModel
	result := pgdb.db.Select("id", "group_id").First(&existing, "id = ?", expenseID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return uuid.Nil, fmt.Errorf("expense with ID %s not found for deletion", expenseID)
		}
		return uuid.Nil, fmt.Errorf("failed to get expense with ID %s: %w", expenseID, result.Error)
	}

	err := pgdb.db.Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("expense_id = ?", expenseID).Delete(&ExpenseShareModel{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Delete(&ExpenseModel{}, "id = ?", expenseID); result.Error != nil {
			return result.Error
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to delete expense with ID %s: %w", expenseID, err)
	}
	return existing.GroupID, nil
}

// DeleteGroupSettlement deletes a specific settlement and returns the ID of
// the group that owned it.
func (pgdb *GORMGroupDBWrapper) DeleteGroupSettlement(settlementID uuid.UUID) (uuid.UUID, error) {
	var existing SettlementModel
	result := pgdb.db.Select("id", "group_id").First(&existing, "id = ?", settlementID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return uuid.Nil, fmt.Errorf("settlement with ID %s not found for deletion", settlementID)
		}
		return uuid.Nil, fmt.Errorf("failed to get settlement with ID %s: %w", settlementID, result.Error)
	}

	result = pgdb.db.Delete(&SettlementModel{}, "id = ?", settlementID)
	if result.Error != nil {
		return uuid.Nil, fmt.Errorf("failed to delete settlement with ID %s: %w", settlementID, result.Error)
	}
	return existing.GroupID, nil
}

// DataLoaderGetExpenseList batch-loads expense lists for a set of group IDs.
// Designed to back a dataloadgen mapped loader.
func (pgdb *GORMGroupDBWrapper) DataLoaderGetExpenseList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]dbt.Expense, error) {
	var expenseModels []ExpenseModel
	result := pgdb.db.WithContext(ctx).Where("group_id IN ?", groupIds).Find(&expenseModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch load expenses: %w", result.Error)
	}

	var shareModels []ExpenseShareModel
	result = pgdb.db.WithContext(ctx).Where("group_id IN ?", groupIds).Find(&shareModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch load expense shares: %w", result.Error)
	}

	sharesByExpense := make(map[uuid.UUID][]ExpenseShareModel)
	for _, sm := range shareModels {
		sharesByExpense[sm.ExpenseID] = append(sharesByExpense[sm.ExpenseID], sm)
	}

	expenses := make(map[uuid.UUID][]dbt.Expense, len(groupIds))
	for _, id := range groupIds {
		expenses[id] = []dbt.Expense{}
	}
	for _, em := range expenseModels {
		expenses[em.GroupID] = append(expenses[em.GroupID], expenseFromModels(em, sharesByExpense[em.ID]))
	}
	return expenses, nil
}

// DataLoaderGetMemberList batch-loads member lists for a set of group IDs.
func (pgdb *GORMGroupDBWrapper) DataLoaderGetMemberList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]dbt.Member, error) {
	var memberModels []MemberModel
	result := pgdb.db.WithContext(ctx).Where("group_id IN ?", groupIds).Find(&memberModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch load members: %w", result.Error)
	}

	members := make(map[uuid.UUID][]dbt.Member, len(groupIds))
	for _, id := range groupIds {
		members[id] = []dbt.Member{}
	}
	for _, mm := range memberModels {
		members[mm.GroupID] = append(members[mm.GroupID], dbt.Member{
			ID:     mm.ID,
			Name:   mm.Name,
			Active: mm.Active,
		})
	}
	return members, nil
}

// DataLoaderGetSettlementList batch-loads settlement lists for a set of group IDs.
func (pgdb *GORMGroupDBWrapper) DataLoaderGetSettlementList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID][]dbt.Settlement, error) {
	var settlementModels []SettlementModel
	result := pgdb.db.WithContext(ctx).Where("group_id IN ?", groupIds).Find(&settlementModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch load settlements: %w", result.Error)
	}

	settlements := make(map[uuid.UUID][]dbt.Settlement, len(groupIds))
	for _, id := range groupIds {
		settlements[id] = []dbt.Settlement{}
	}
	for _, sm := range settlementModels {
		settlements[sm.GroupID] = append(settlements[sm.GroupID], settlementFromModel(sm))
	}
	return settlements, nil
}

// DataLoaderGetGroupInfoList batch-loads group infos for a set of group IDs.
func (pgdb *GORMGroupDBWrapper) DataLoaderGetGroupInfoList(ctx context.Context, groupIds []uuid.UUID) (map[uuid.UUID]*dbt.GroupInfo, error) {
	var groupInfoModels []GroupInfoModel
	result := pgdb.db.WithContext(ctx).Where("id IN ?", groupIds).Find(&groupInfoModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch load group infos: %w", result.Error)
	}

	infos := make(map[uuid.UUID]*dbt.GroupInfo, len(groupIds))
	for _, gm := range groupInfoModels {
		infos[gm.ID] = &dbt.GroupInfo{
			ID:   gm.ID,
			Name: gm.Name,
		}
	}
	for _, id := range groupIds {
		if _, ok := infos[id]; !ok {
			return nil, fmt.Errorf("group info with ID %s not found", id)
		}
	}
	return infos, nil
}
