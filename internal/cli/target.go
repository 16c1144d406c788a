package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplint/pkg/deps"
	apperrors "github.com/matzehuels/deplint/pkg/errors"
	"github.com/matzehuels/deplint/pkg/lint"
)

// targetOpts holds the flags that select what gets resolved.
type targetOpts struct {
	depth    int    // maximum depth, negative for unlimited
	kind     string // dependency kind: dependencies (default), dev, peer, optional
	manifest string // local package.json used as the root
}

func (o *targetOpts) register(cmd *cobra.Command) {
	o.depth = deps.Unlimited
	cmd.Flags().IntVarP(&o.depth, "depth", "d", o.depth, "maximum dependency depth, 0 for the root only (default unlimited)")
	cmd.Flags().StringVarP(&o.kind, "kind", "k", "", "dependency kind: dependencies (default), dev, peer, optional")
	cmd.Flags().StringVarP(&o.manifest, "manifest", "m", "", "resolve the dependencies of a local package.json")
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)
	_ = cmd.MarkFlagFilename("manifest", "json")
}

// resolve builds the target from the positional arguments [package] [range]
// and the flags. Settings from file apply when the matching flag was not
// given; file may be nil.
func (o *targetOpts) resolve(cmd *cobra.Command, args []string, file *lint.File) (lint.Target, error) {
	var t lint.Target

	if o.manifest != "" {
		if len(args) > 0 {
			return t, apperrors.New(apperrors.ErrCodeInvalidInput, "--manifest cannot be combined with a package argument")
		}
		root, err := deps.ReadPackageJSON(o.manifest)
		if err != nil {
			return t, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read manifest")
		}
		t.Name, t.Requested, t.Local = root.Name, root.Version, &root
	} else {
		if len(args) == 0 {
			return t, apperrors.New(apperrors.ErrCodeInvalidInput, "a package name or --manifest is required")
		}
		t.Name, t.Requested = args[0], deps.DefaultTag
		if len(args) > 1 {
			t.Requested = args[1]
		}
		if err := apperrors.ValidatePackageName(t.Name); err != nil {
			return t, err
		}
		if err := apperrors.ValidateRange(t.Requested); err != nil {
			return t, err
		}
	}

	switch {
	case cmd.Flags().Changed("depth"):
		if o.depth >= 0 {
			d := o.depth
			t.Depth = &d
		}
	case file != nil && file.Depth != nil:
		d := *file.Depth
		t.Depth = &d
	}

	kind := o.kind
	if !cmd.Flags().Changed("kind") && file != nil {
		kind = file.Kind
	}
	k, err := deps.ParseDependencyKind(kind)
	if err != nil {
		return t, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid --kind")
	}
	t.Kind = k
	return t, nil
}
