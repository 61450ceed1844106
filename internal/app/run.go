package app

import (
	"context"
	"fmt"

	"github.com/vk/fluxfield/internal/config"
	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/vk/fluxfield/internal/jobspec"
	"github.com/vk/fluxfield/internal/rspec"
	"github.com/vk/fluxfield/internal/task"
	"github.com/vk/fluxfield/internal/tree"
)

// Result is one processed document.
type Result struct {
	Document config.Document
	Spec     *rspec.ResourceSpec
	// Job is set when the document is a job specification.
	Job *jobspec.JobSpec
}

// Tasks returns the job's tasks, if any.
func (r *Result) Tasks() []task.Task {
	if r.Job == nil {
		return nil
	}
	return r.Job.Tasks
}

// Run loads every document under Config.SpecPath, builds it, writes the
// selected rendering to the output writer and publishes it when a
// publisher is configured. Processing stops at the first failing document.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	emitter, err := a.formats.Emitter(a.config.Output)
	if err != nil {
		return err
	}

	docs, err := a.formats.LoadPath(ctx, a.config.SpecPath)
	if err != nil {
		return fmt.Errorf("failed to load specs: %w", err)
	}
	a.logger.Debug("Documents loaded.", "count", len(docs))

	for i, doc := range docs {
		res, err := a.Process(ctx, doc)
		if err != nil {
			return fmt.Errorf("%s: %w", location(doc), err)
		}

		rendered := a.render(res)
		out, err := emitter.Emit(rendered)
		if err != nil {
			return fmt.Errorf("%s: failed to emit %s: %w", location(doc), a.config.Output, err)
		}
		if i > 0 {
			if _, err := fmt.Fprint(a.outW, a.separator()); err != nil {
				return err
			}
		}
		if _, err := a.outW.Write(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if a.publisher != nil {
			if err := a.publisher.Publish(ctx, res.Spec.EncodeGraph()); err != nil {
				return fmt.Errorf("%s: failed to publish: %w", location(doc), err)
			}
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Process builds one document. A map carrying a "resources" key is decoded
// as a job specification; anything else is a resource description.
func (a *App) Process(ctx context.Context, doc config.Document) (*Result, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx).With("path", doc.Path, "index", doc.Index)

	opts := []rspec.Option{rspec.WithIdentity(a.ids)}
	if a.config.MaxInstances > 0 {
		opts = append(opts, rspec.WithMaxInstances(a.config.MaxInstances))
	}

	res := &Result{Document: doc}
	if isJobSpec(doc.Tree) {
		js, err := jobspec.Decode(ctx, doc.Tree, opts...)
		if err != nil {
			return nil, err
		}
		res.Job, res.Spec = js, js.Resources
	} else {
		spec, err := rspec.New(ctx, doc.Tree, opts...)
		if err != nil {
			return nil, err
		}
		res.Spec = spec
	}

	logger.Info("Spec processed.",
		"instances", res.Spec.Graph().Len(),
		"types", res.Spec.Registry().Len(),
		"tasks", len(res.Tasks()))
	return res, nil
}

func (a *App) render(res *Result) any {
	switch a.config.Emit {
	case "graph":
		return res.Spec.EncodeGraph()
	case "summary":
		return summaryTree(res)
	default:
		if res.Job != nil {
			return res.Job.Encode()
		}
		return res.Spec.Encode()
	}
}

func (a *App) separator() string {
	switch a.config.Output {
	case "yaml":
		return "---\n"
	default:
		return "\n"
	}
}

func summaryTree(res *Result) map[string]any {
	var types []any
	for _, s := range res.Spec.Summarize() {
		types = append(types, map[string]any{
			"type":      s.Type,
			"instances": int64(s.Instances),
			"capacity":  s.Capacity,
		})
	}
	out := map[string]any{
		"instances": int64(res.Spec.Graph().Len()),
		"types":     types,
	}
	if res.Job != nil {
		out["tasks"] = int64(len(res.Job.Tasks))
	}
	return out
}

func isJobSpec(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = tree.Lookup(m, "resources")
	return ok
}

func location(doc config.Document) string {
	if doc.Index == 0 {
		return doc.Path
	}
	return fmt.Sprintf("%s[%d]", doc.Path, doc.Index)
}
