package orchestrator

import (
	"fmt"

	sweeperrors "github.com/ducminhle1904/lvn-sweep/internal/errors"
	"github.com/ducminhle1904/lvn-sweep/pkg/reporting"
)

// ResumePlan is the resolved starting point of a sweep
type ResumePlan struct {
	Offset     int
	Checkpoint *reporting.Checkpoint
	Warnings   []string
}

// ResolveResume decides where a sweep starts. With auto set the offset
// comes from the checkpoint next to output and a checkpoint for a
// different grid is an error. Without a checkpoint, auto resumes after the
// rows already in output so existing results are never truncated. Otherwise the requested
// offset is used as given; disagreement with the checkpoint only warns.
func ResolveResume(output string, requested int, auto bool, fingerprint string) (*ResumePlan, error) {
	if requested < 0 {
		return nil, sweeperrors.NewInputError("resume", "resolve", fmt.Sprintf("resume offset must be >= 0, got %d", requested))
	}

	cp, err := reporting.LoadCheckpoint(reporting.CheckpointPath(output))
	if err != nil {
		return nil, sweeperrors.NewInputError("resume", "load checkpoint", err.Error())
	}

	plan := &ResumePlan{Offset: requested, Checkpoint: cp}
	if cp == nil {
		if !auto {
			return plan, nil
		}
		rows, err := reporting.CountRows(output)
		if err != nil {
			return nil, sweeperrors.NewInputError("resume", "count rows", err.Error())
		}
		plan.Offset = rows
		if rows > 0 {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("no checkpoint found, resuming after the %d rows in %s", rows, output))
		} else {
			plan.Warnings = append(plan.Warnings, "no checkpoint found, starting from the beginning")
		}
		return plan, nil
	}

	sameGrid := cp.Fingerprint == fingerprint
	if auto {
		if !sameGrid {
			return nil, sweeperrors.NewConfigurationError("resume", "resolve",
				fmt.Sprintf("checkpoint %s was written for a different grid", reporting.CheckpointPath(output)))
		}
		plan.Offset = cp.NextIndex
		return plan, nil
	}

	if !sameGrid && requested > 0 {
		plan.Warnings = append(plan.Warnings, "checkpoint was written for a different grid")
	}
	if requested > 0 && requested != cp.NextIndex {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("resume offset %d differs from checkpoint next_index %d, using %d", requested, cp.NextIndex, requested))
	}
	return plan, nil
}
