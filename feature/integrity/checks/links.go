package checks

import (
	"context"
	"errors"
	"os"

	"medialink/core/reconcile"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// LinkStatus is the filesystem state of one registry record.
type LinkStatus string

const (
	// StatusOK means the link exists and points at the origin.
	StatusOK LinkStatus = "ok"
	// StatusMissing means nothing exists at the destination.
	StatusMissing LinkStatus = "missing"
	// StatusNotSymlink means a non-link entry occupies the destination.
	StatusNotSymlink LinkStatus = "not_symlink"
	// StatusWrongTarget means the link points somewhere else.
	StatusWrongTarget LinkStatus = "wrong_target"
	// StatusOriginMissing means the origin file is gone.
	StatusOriginMissing LinkStatus = "origin_missing"
)

// LinkProblem describes one record whose link is not ok.
type LinkProblem struct {
	Destination string     `json:"destination"`
	Origin      string     `json:"origin"`
	Entry       int        `json:"entry"`
	Status      LinkStatus `json:"status"`
	Target      string     `json:"target,omitempty"`
}

// LinkReport summarizes link states.
type LinkReport struct {
	Total    int                `json:"total"`
	Counts   map[LinkStatus]int `json:"counts"`
	Problems []LinkProblem      `json:"problems"`
}

// Repairable reports whether re-applying the link fixes the problem.
func (p LinkProblem) Repairable() bool {
	switch p.Status {
	case StatusMissing, StatusNotSymlink, StatusWrongTarget:
		return true
	default:
		return false
	}
}

// CheckLinks inspects every record on fs. Problems keep the order of records.
func CheckLinks(ctx context.Context, fs afero.Fs, records []reconcile.LinkRecord, concurrency int) (*LinkReport, error) {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return nil, reconcile.ErrNotSymlinker
	}
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return nil, reconcile.ErrNotSymlinker
	}
	if concurrency <= 0 {
		concurrency = 16
	}

	problems := make([]*LinkProblem, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			status, target, err := inspect(fs, lstater, reader, rec)
			if err != nil {
				return err
			}
			if status != StatusOK {
				problems[i] = &LinkProblem{
					Destination: rec.Destination,
					Origin:      rec.Origin,
					Entry:       rec.Entry,
					Status:      status,
					Target:      target,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &LinkReport{
		Total:    len(records),
		Counts:   map[LinkStatus]int{},
		Problems: []LinkProblem{},
	}
	for _, p := range problems {
		if p == nil {
			report.Counts[StatusOK]++
			continue
		}
		report.Counts[p.Status]++
		report.Problems = append(report.Problems, *p)
	}
	return report, nil
}

func inspect(fs afero.Fs, lstater afero.Lstater, reader afero.LinkReader, rec reconcile.LinkRecord) (LinkStatus, string, error) {
	if _, err := fs.Stat(rec.Origin); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StatusOriginMissing, "", nil
		}
		return "", "", err
	}

	info, _, err := lstater.LstatIfPossible(rec.Destination)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StatusMissing, "", nil
		}
		return "", "", err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return StatusNotSymlink, "", nil
	}

	target, err := reader.ReadlinkIfPossible(rec.Destination)
	if err != nil {
		return "", "", err
	}
	if target != rec.Origin {
		return StatusWrongTarget, target, nil
	}
	return StatusOK, target, nil
}

// RepairResult counts the outcome of RepairLinks.
type RepairResult struct {
	Relinked []string `json:"relinked"`
	Failed   []string `json:"failed"`
	Pruned   []string `json:"pruned"`
}

// LinkRepairer is the part of the engine RepairLinks needs.
type LinkRepairer interface {
	Apply(origin, destination string) bool
	Unlink(destination string) error
}

// RepairLinks re-applies repairable links and prunes records whose origin is
// gone. Pruning only drops a record still pointing at the same origin.
func RepairLinks(report *LinkReport, applier LinkRepairer, registry *reconcile.Registry) RepairResult {
	res := RepairResult{Relinked: []string{}, Failed: []string{}, Pruned: []string{}}
	for _, p := range report.Problems {
		switch {
		case p.Repairable():
			if applier.Apply(p.Origin, p.Destination) {
				res.Relinked = append(res.Relinked, p.Destination)
			} else {
				res.Failed = append(res.Failed, p.Destination)
			}
		case p.Status == StatusOriginMissing:
			if err := applier.Unlink(p.Destination); err != nil {
				res.Failed = append(res.Failed, p.Destination)
				continue
			}
			if _, ok := registry.RemoveIf(p.Destination, p.Origin); ok {
				res.Pruned = append(res.Pruned, p.Destination)
			}
		}
	}
	return res
}
