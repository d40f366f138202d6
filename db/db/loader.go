package db

import (
	"github.com/google/uuid"
	"github.com/vikstrous/dataloadgen"
)

type dataLoaderKey string

const (
	DataLoaderKeyGroupData dataLoaderKey = "group_data_loader"
)

// GroupDataLoader batches and caches per-request reads of group collections.
// Handlers fetch it from the request context under DataLoaderKeyGroupData.
type GroupDataLoader struct {
	GetExpenseList    *dataloadgen.Loader[uuid.UUID, []Expense]
	GetMemberList     *dataloadgen.Loader[uuid.UUID, []Member]
	GetSettlementList *dataloadgen.Loader[uuid.UUID, []Settlement]
	GetGroupInfoList  *dataloadgen.Loader[uuid.UUID, *GroupInfo]
}

func NewGroupDataLoader(dbWrapper GroupDBWrapper) *GroupDataLoader {
	return &GroupDataLoader{
		GetExpenseList:    dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetExpenseList),
		GetMemberList:     dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetMemberList),
		GetSettlementList: dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetSettlementList),
		GetGroupInfoList:  dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetGroupInfoList),
	}
}
