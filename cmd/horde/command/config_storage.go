package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/deadwatch/horde/internal/storage"
	"github.com/deadwatch/horde/internal/weapon"
	"github.com/deadwatch/horde/internal/zombie"
)

type StorageConfig struct {
	DatabasePath string                      `json:"database_path"`
	Weapons      AssetConfig[*weapon.Config] `json:"weapons"`
	Zombies      AssetConfig[*zombie.Config] `json:"zombies"`
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()

	if c.DatabasePath == "" {
		el.Add(fmt.Errorf("database_path is required"))
	}

	el.Add(c.Weapons.Validate("weapons"))
	el.Add(c.Zombies.Validate("zombies"))

	return el.Err()
}

func (c *StorageConfig) BuildWeaponCatalog() (*storage.FileCatalog[*weapon.Config], error) {
	return storage.NewFileCatalog(c.Weapons.Path, weapon.Builtins())
}

func (c *StorageConfig) BuildZombieCatalog() (*storage.FileCatalog[*zombie.Config], error) {
	return storage.NewFileCatalog(c.Zombies.Path, zombie.Builtins())
}

// AssetConfig points at a directory of JSON asset files. An empty path
// means the compiled-in defaults serve unmodified.
type AssetConfig[T storage.Definition] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return nil
	}

	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}
