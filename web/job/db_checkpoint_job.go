package job

import (
	"github.com/yatube/yatube/database"
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/util/common"

	"go.uber.org/atomic"
)

// CheckpointJob folds the SQLite write-ahead log back into the database file.
type CheckpointJob struct {
	running atomic.Bool
}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		return
	}
	defer j.running.Store(false)
	defer common.Recover("checkpoint job")

	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
	}
}
