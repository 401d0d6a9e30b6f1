package provision

import "fmt"

// Stage names a step of the provisioning run.
type Stage string

const (
	StageUserCertificates Stage = "read user certificates"
	StageGenerate         Stage = "generate bundle"
	StageStore            Stage = "store bundle"
	StageEnvironment      Stage = "configure environment"
)

// StageError reports the step that failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (stageError *StageError) Error() string {
	return fmt.Sprintf("%s: %v", stageError.Stage, stageError.Err)
}

func (stageError *StageError) Unwrap() error {
	return stageError.Err
}
