package cli

import (
	"fmt"

	"github.com/nickholt/routine/internal/storage/postgres"
)

type ConfigSetConnectionCmd struct {
	ConnStr string `arg:"" help:"PostgreSQL connection string to store in the OS keyring."`
}

func (c *ConfigSetConnectionCmd) Run(ctx *Context) error {
	if err := postgres.StoreConnectionString(c.ConnStr); err != nil {
		return err
	}
	fmt.Println("Connection string stored in OS keyring.")
	return nil
}

type ConfigClearConnectionCmd struct{}

func (c *ConfigClearConnectionCmd) Run(ctx *Context) error {
	if err := postgres.ClearConnectionString(); err != nil {
		return err
	}
	fmt.Println("Connection string removed from OS keyring.")
	return nil
}
