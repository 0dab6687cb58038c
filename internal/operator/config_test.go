// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operator_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/operator"
	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/scrapetarget"
)

type configSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&configSuite{})

func (s *configSuite) TestParseConfigDefaults(c *gc.C) {
	cfg, err := operator.ParseConfig(map[string]interface{}{
		"namespaces": nil,
		"unrelated":  42,
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, operator.Config{})
	c.Check(cfg.Validate(), jc.ErrorIsNil)
}

func (s *configSuite) TestParseConfig(c *gc.C) {
	cfg, err := operator.ParseConfig(map[string]interface{}{
		"metric-allowlist":        "kube_pod_.*, kube_node_.*,kube_pod_.*",
		"metric-labels-allowlist": "pods=[app]",
		"namespaces":              "default,kube-system",
		"resources":               "pods",
		"scrape-interval":         "30s",
		"scrape-timeout":          " 15s ",
		"scrape-labels":           `{"app": "x"}`,
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, operator.Config{
		MetricAllowlist:       []string{"kube_pod_.*", "kube_node_.*"},
		MetricLabelsAllowlist: "pods=[app]",
		Namespaces:            []string{"default", "kube-system"},
		Resources:             []string{"pods"},
		ScrapeInterval:        "30s",
		ScrapeTimeout:         "15s",
		ScrapeLabels:          map[string]string{"app": "x"},
	})
}

func (s *configSuite) TestParseConfigWrongType(c *gc.C) {
	_, err := operator.ParseConfig(map[string]interface{}{"namespaces": 5})
	c.Check(err, jc.ErrorIs, errors.NotValid)
	c.Check(err, gc.ErrorMatches, "charm config: .*")
}

func (s *configSuite) TestParseConfigScrapeLabels(c *gc.C) {
	cfg, err := operator.ParseConfig(map[string]interface{}{"scrape-labels": "team: infra\n"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.ScrapeLabels, jc.DeepEquals, map[string]string{"team": "infra"})

	_, err = operator.ParseConfig(map[string]interface{}{"scrape-labels": `{"k": 1}`})
	c.Check(err, gc.ErrorMatches, "label keys and values must be strings")
	c.Check(scrapetarget.IsConfigError(err), jc.IsTrue)

	_, err = operator.ParseConfig(map[string]interface{}{"scrape-labels": "- a\n- b\n"})
	c.Check(err, gc.ErrorMatches, "labels must be a dictionary")

	_, err = operator.ParseConfig(map[string]interface{}{"scrape-labels": "{unterminated"})
	c.Check(err, gc.ErrorMatches, "scrape-labels must be a YAML or JSON mapping")
}

func (s *configSuite) TestValidateMutuallyExclusive(c *gc.C) {
	cfg, err := operator.ParseConfig(map[string]interface{}{
		"metric-allowlist": "foo",
		"metric-denylist":  "foo",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.Validate(), gc.ErrorMatches, "metric-allowlist and metric-denylist are mutually exclusive")
}

func (s *configSuite) TestValidateAllowlistOnly(c *gc.C) {
	cfg, err := operator.ParseConfig(map[string]interface{}{
		"metric-allowlist":        "foo",
		"metric-labels-allowlist": "foo",
		"namespaces":              "foo",
		"resources":               "foo",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.Validate(), jc.ErrorIsNil)
}
