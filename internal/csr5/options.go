package csr5

import (
	"github.com/sirupsen/logrus"

	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

type config struct {
	pool *workerpool.Pool
	log  logrus.FieldLogger
}

// Option configures New.
type Option func(*config)

// WithPool runs tile derivation and every Mul of the matrix on pool
// instead of the process-wide default.
func WithPool(p *workerpool.Pool) Option {
	return func(c *config) { c.pool = p }
}

// WithLogger sets where build statistics are logged (Debug level).
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(opts []Option) config {
	c := config{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(&c)
	}
	if c.pool == nil {
		c.pool = workerpool.Default()
	}
	return c
}
