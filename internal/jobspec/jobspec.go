// Package jobspec decodes a complete job specification: the requested
// resources, the tasks to launch on them and job level settings.
//
//	version: 1
//	walltime: 1h
//	resources:
//	  - type: Node
//	    count: 4
//	    with: {type: Core, count: 8}
//	tasks:
//	  - command: [app]
//	    slot: {level: Core}
//	    count: {per_slot: 1}
package jobspec

import (
	"context"
	"math"
	"time"

	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/vk/fluxfield/internal/rspec"
	"github.com/vk/fluxfield/internal/specerr"
	"github.com/vk/fluxfield/internal/task"
	"github.com/vk/fluxfield/internal/tree"
)

// Version is the only supported document version.
const Version = 1

// JobSpec is a decoded job specification.
type JobSpec struct {
	Version   int
	Walltime  time.Duration
	Resources *rspec.ResourceSpec
	Tasks     []task.Task
	Attrs     map[string]any
}

// Decode builds a JobSpec from a generic tree. opts are passed to rspec.New.
func Decode(ctx context.Context, v any, opts ...rspec.Option) (*JobSpec, error) {
	logger := ctxlog.FromContext(ctx)

	m, ok := v.(map[string]any)
	if !ok {
		return nil, specerr.New(specerr.MalformedSpec, "", "job specification must be a map, got %s", tree.Describe(v))
	}

	js := &JobSpec{Version: Version}

	if raw, ok := tree.Lookup(m, "version"); ok {
		n, err := tree.Int64(raw)
		if err != nil {
			return nil, specerr.Wrap(specerr.Decode, "version", err)
		}
		if n != Version {
			return nil, specerr.New(specerr.Decode, "version", "unsupported version %d (want %d)", n, Version)
		}
	}

	if raw, ok := tree.Lookup(m, "walltime"); ok {
		d, err := decodeWalltime(raw)
		if err != nil {
			return nil, err
		}
		js.Walltime = d
	}

	if raw, ok := tree.Lookup(m, "attrs"); ok {
		attrs, isMap := raw.(map[string]any)
		if !isMap {
			return nil, specerr.New(specerr.Decode, "attrs", "must be a map, got %s", tree.Describe(raw))
		}
		js.Attrs = tree.Clone(attrs).(map[string]any)
	}

	if raw, ok := tree.Lookup(m, "tasks"); ok {
		tasks, err := task.DecodeList(raw)
		if err != nil {
			return nil, specerr.Wrap(specerr.Decode, "tasks", err)
		}
		js.Tasks = tasks
	}

	raw, ok := tree.Lookup(m, "resources")
	if !ok {
		return nil, specerr.New(specerr.MalformedSpec, "resources", "is required")
	}
	if !tree.IsMap(raw) && !tree.IsSeq(raw) {
		return nil, specerr.New(specerr.MalformedSpec, "resources", "must be a map or a sequence, got %s", tree.Describe(raw))
	}
	res, err := rspec.New(ctx, raw, opts...)
	if err != nil {
		return nil, specerr.Wrap(specerr.MalformedSpec, "resources", err)
	}
	js.Resources = res

	for i, t := range js.Tasks {
		if !t.Slot().IsLevel() {
			continue
		}
		if _, ok := res.Registry().Lookup(t.Slot().Name()); !ok {
			logger.Warn("Task slot names a level with no resources.", "task", i, "level", t.Slot().Name())
		}
	}

	logger.Debug("Job specification decoded.", "tasks", len(js.Tasks), "instances", res.Graph().Len(), "walltime", js.Walltime)
	return js, nil
}

// maxWalltimeSeconds is the largest bare-number walltime a time.Duration holds.
const maxWalltimeSeconds = math.MaxInt64 / int64(time.Second)

func decodeWalltime(raw any) (time.Duration, error) {
	s, ok := raw.(string)
	if !ok {
		// A bare number is a count of seconds.
		n, err := tree.Int64(raw)
		if err != nil {
			return 0, specerr.Wrap(specerr.Decode, "walltime", err)
		}
		if n < 0 {
			return 0, specerr.New(specerr.Decode, "walltime", "must be non-negative, got %d", n)
		}
		if n > maxWalltimeSeconds {
			return 0, specerr.New(specerr.Decode, "walltime", "%d seconds exceeds the maximum of %d", n, maxWalltimeSeconds)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &specerr.Error{Kind: specerr.Decode, Field: "walltime", Err: err}
	}
	if d < 0 {
		return 0, specerr.New(specerr.Decode, "walltime", "must be non-negative, got %s", s)
	}
	return d, nil
}

// Encode returns the generic-tree form of js.
func (js *JobSpec) Encode() map[string]any {
	out := map[string]any{
		"version":   int64(js.Version),
		"resources": js.Resources.Encode(),
	}
	if js.Walltime > 0 {
		out["walltime"] = js.Walltime.String()
	}
	if len(js.Tasks) > 0 {
		out["tasks"] = task.EncodeList(js.Tasks)
	}
	if len(js.Attrs) > 0 {
		out["attrs"] = tree.Clone(js.Attrs)
	}
	return out
}
