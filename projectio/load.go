// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package projectio

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/bpowers/simlin-sub002/project"
)

// Load reads a project file from location (a local path or any URL afs
// supports: file://, s3://, gs://, ...), dispatching on its extension
// between YAML and JSON, then converts it to a live project.Project,
// mirroring inp/sim.go's ReadSim "read -> unmarshal -> derive" flow.
func Load(ctx context.Context, location string) (*project.Project, error) {
	fs := afs.New()
	b, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, chk.Err("projectio: cannot read %q: %v", location, err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(location)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, chk.Err("projectio: cannot parse YAML %q: %v", location, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, chk.Err("projectio: cannot parse JSON %q: %v", location, err)
		}
	default:
		return nil, chk.Err("projectio: unrecognized project file extension %q (want .yaml/.yml/.json)", ext)
	}

	p, err := ToProject(&f)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, chk.Err("projectio: %q failed validation: %v", location, err)
	}
	return p, nil
}

// Marshal serializes p to its on-disk form in the given format ("yaml" or
// "json").
func Marshal(p *project.Project, format string) ([]byte, error) {
	f, err := FromProject(p)
	if err != nil {
		return nil, err
	}
	switch format {
	case "yaml":
		return yaml.Marshal(f)
	case "json":
		return json.MarshalIndent(f, "", "  ")
	default:
		return nil, chk.Err("projectio: unknown format %q (want yaml/json)", format)
	}
}
