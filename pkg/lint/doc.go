// Package lint evaluates rules against dependency graphs.
//
// A [Rule] inspects one node at a time. [RuleConfig] binds a rule to a
// [Severity] and rule-specific [Options]. Linting a target runs one
// analysis session per rule config, all against the same target and
// range, so every session holds the same graph:
//
//	configs, err := lint.Resolve(file.Rules, rules.Registry())
//	sessions := lint.NewSessionFactory(client, logger).CreateSessions(target, configs)
//	rep := lint.NewReporter(os.Stdout, configs, logger)
//	err = pipeline.NewEngine(logger, rep).Run(ctx, sessions)
//
// During the annotate phase [AnnotateProcessor] stores each rule's
// annotation under "lint.<rule id>". The [Reporter] then checks every node,
// groups findings by tree position using the first session's tree, and
// prints a warning/error summary.
package lint
