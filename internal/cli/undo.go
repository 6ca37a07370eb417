package cli

import "fmt"

type UndoCmd struct {
	List bool `help:"List undoable changes instead of undoing."`
}

func (c *UndoCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.List {
		messages := ctx.Engine.History()
		if len(messages) == 0 {
			fmt.Println("Nothing to undo")
			return nil
		}
		fmt.Println("Recent changes (most recent first):")
		for i, message := range messages {
			fmt.Printf("  %d. %s\n", i+1, message)
		}
		return nil
	}

	message, err := ctx.Engine.Undo()
	if err != nil {
		return err
	}
	fmt.Printf("Undone: %s\n", message)
	return nil
}
