// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools_test

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/charmed-kubernetes/kube-state-metrics-operator/core/status"
	"github.com/charmed-kubernetes/kube-state-metrics-operator/internal/hooktools"
)

type contextSuite struct {
	testing.IsolationSuite

	runner *fakeRunner
	ctx    *hooktools.Context
}

var _ = gc.Suite(&contextSuite{})

func (s *contextSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.runner = &fakeRunner{output: make(map[string][]string)}
	var err error
	s.ctx, err = hooktools.NewContext("kube-state-metrics/0", s.runner)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *contextSuite) TestNewContextInvalidUnit(c *gc.C) {
	_, err := hooktools.NewContext("kube-state-metrics", s.runner)
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}

func (s *contextSuite) TestNewContextFromEnv(c *gc.C) {
	env := map[string]string{"JUJU_UNIT_NAME": "kube-state-metrics/3"}
	ctx, err := hooktools.NewContextFromEnv(func(k string) string { return env[k] })
	c.Assert(err, jc.ErrorIsNil)
	c.Check(ctx.UnitName(), gc.Equals, "kube-state-metrics/3")

	_, err = hooktools.NewContextFromEnv(func(string) string { return "" })
	c.Check(err, jc.ErrorIs, errors.NotFound)
}

func (s *contextSuite) TestConfig(c *gc.C) {
	s.runner.output["config-get"] = []string{"metric-allowlist: foo\nnamespaces: \"\"\nport: 8080\n"}

	cfg, err := s.ctx.Config(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, map[string]interface{}{
		"metric-allowlist": "foo",
		"namespaces":       "",
		"port":             8080,
	})
	s.runner.CheckCall(c, 0, "config-get", []string{"--all", "--format=yaml"})
}

func (s *contextSuite) TestIngressAddress(c *gc.C) {
	s.runner.output["network-get"] = []string{
		"10.1.2.3\n",
		"- 10.1.2.4\n- 10.1.2.5\n",
		"",
	}
	addr, err := s.ctx.IngressAddress(context.Background(), "monitoring")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(addr, gc.Equals, "10.1.2.3")
	s.runner.CheckCall(c, 0, "network-get", []string{"monitoring", "--ingress-address", "--format=yaml"})

	addr, err = s.ctx.IngressAddress(context.Background(), "monitoring")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(addr, gc.Equals, "10.1.2.4")

	_, err = s.ctx.IngressAddress(context.Background(), "monitoring")
	c.Check(err, jc.ErrorIs, errors.NotFound)
}

func (s *contextSuite) TestIngressAddressToolError(c *gc.C) {
	s.runner.SetErrors(errors.New("network-get failed (1): no network config found"))
	_, err := s.ctx.IngressAddress(context.Background(), "monitoring")
	c.Check(err, gc.ErrorMatches, `network-get failed \(1\): no network config found`)
}

func (s *contextSuite) TestSetStatus(c *gc.C) {
	err := s.ctx.SetStatus(context.Background(), status.StatusInfo{
		Status:  status.Blocked,
		Message: "metric-allowlist and metric-denylist are mutually exclusive",
	})
	c.Assert(err, jc.ErrorIsNil)
	err = s.ctx.SetStatus(context.Background(), status.StatusInfo{Status: status.Active})
	c.Assert(err, jc.ErrorIsNil)

	s.runner.CheckCalls(c, []testing.StubCall{
		{FuncName: "status-set", Args: []interface{}{[]string{"blocked", "metric-allowlist and metric-denylist are mutually exclusive"}}},
		{FuncName: "status-set", Args: []interface{}{[]string{"active"}}},
	})
}

func (s *contextSuite) TestSetStatusInvalid(c *gc.C) {
	err := s.ctx.SetStatus(context.Background(), status.StatusInfo{Status: "error"})
	c.Check(err, jc.ErrorIs, errors.NotValid)
	s.runner.CheckNoCalls(c)
}

func (s *contextSuite) TestState(c *gc.C) {
	s.runner.output["state-get"] = []string{"|\n  port: 8080\n", ""}

	value, ok, err := s.ctx.Get(context.Background(), "scrape-target")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(ok, jc.IsTrue)
	c.Check(value, gc.Equals, "port: 8080\n")

	_, ok, err = s.ctx.Get(context.Background(), "scrape-target")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(ok, jc.IsFalse)

	err = s.ctx.Set(context.Background(), "scrape-target", "port: 8080\n")
	c.Assert(err, jc.ErrorIsNil)
	s.runner.CheckCall(c, 2, "state-set", []string{"scrape-target=port: 8080\n"})
}
