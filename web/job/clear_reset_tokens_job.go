package job

import (
	"github.com/yatube/yatube/logger"
	"github.com/yatube/yatube/util/common"
	"github.com/yatube/yatube/web/service"

	"go.uber.org/atomic"
)

// ClearResetTokensJob deletes password reset tokens that were used or have expired.
type ClearResetTokensJob struct {
	resetService service.PasswordResetService
	running      atomic.Bool
}

func NewClearResetTokensJob() *ClearResetTokensJob {
	return new(ClearResetTokensJob)
}

// Run is skipped while a previous run is still busy.
func (j *ClearResetTokensJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		logger.Debug("clear reset tokens job is still running, skip")
		return
	}
	defer j.running.Store(false)
	defer common.Recover("clear reset tokens job")

	count, err := j.resetService.ClearExpiredTokens()
	if err != nil {
		logger.Warning("clear reset tokens job err:", err)
		return
	}
	if count > 0 {
		logger.Infof("cleared %d password reset tokens", count)
	}
}
