package sqlxrepos

import "github.com/kjboard/board/core"

type base struct {
	exec core.DBExecutor
}

func (repo base) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

// q rebinds `?` placeholders for the executor's driver.
func q(exec core.DBExecutor, query string) string {
	return exec.Rebind(query)
}
