package savefile

import (
	"fmt"
	"io"
	"os"
)

// rotateBackup copies an existing target to its backup location before the
// target is overwritten. With multi unset the backup is <name>.bak,
// overwriting any previous backup. With multi set the lowest unused
// <name>.bak.N is chosen, so every generation is kept.
//
// A missing target is not an error - there is nothing to back up.
func rotateBackup(path string, multi bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dest := path + ".bak"
	if multi {
		n := 0
		for {
			dest = fmt.Sprintf("%s.bak.%d", path, n)
			if _, err := os.Stat(dest); os.IsNotExist(err) {
				break
			} else if err != nil {
				return fmt.Errorf("stat %s: %w", dest, err)
			}
			n++
		}
	}

	return copyFile(path, dest)
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
