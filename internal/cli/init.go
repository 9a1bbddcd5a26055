package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	fmt.Printf("Initialized routine storage at %s\n", ctx.Backend.Location())
	return nil
}
