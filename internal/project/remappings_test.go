package project

import (
	"path/filepath"
	"testing"
)

func TestParseRemapping(t *testing.T) {
	t.Run("splits and trims a pair", func(t *testing.T) {
		r, err := ParseRemapping(" @oz/ = lib/oz/ ")
		if err != nil {
			t.Fatalf("ParseRemapping() error = %v", err)
		}

		if r.Prefix != "@oz/" || r.Target != "lib/oz/" {
			t.Errorf("ParseRemapping() = %+v", r)
		}
	})

	t.Run("rejects malformed pairs", func(t *testing.T) {
		for _, bad := range []string{"no-equals", "=target", "prefix=", ""} {
			if _, err := ParseRemapping(bad); err == nil {
				t.Errorf("ParseRemapping(%q) succeeded, want error", bad)
			}
		}
	})
}

func TestRemap(t *testing.T) {
	t.Run("longest prefix wins within one source", func(t *testing.T) {
		p := &Project{Remappings: []Remapping{
			{Prefix: "@openzeppelin/contracts/", Target: "long/", Source: SourceRemappingsTxt},
			{Prefix: "@openzeppelin/", Target: "short/", Source: SourceRemappingsTxt},
		}}

		got, ok := p.Remap("@openzeppelin/contracts/token/ERC20.sol")
		if !ok || got != "long/token/ERC20.sol" {
			t.Errorf("Remap() = %q %v, want long/token/ERC20.sol", got, ok)
		}

		got, ok = p.Remap("@openzeppelin/utils/Context.sol")
		if !ok || got != "short/utils/Context.sol" {
			t.Errorf("Remap() = %q %v, want short/utils/Context.sol", got, ok)
		}
	})

	t.Run("a stronger source beats a longer prefix", func(t *testing.T) {
		p := &Project{Remappings: []Remapping{
			{Prefix: "@openzeppelin/contracts/", Target: "from-config/", Source: SourceFoundryConfig},
			{Prefix: "@openzeppelin/", Target: "from-flag/", Source: SourceExplicit},
		}}

		got, ok := p.Remap("@openzeppelin/contracts/token/ERC20.sol")
		if !ok || got != "from-flag/contracts/token/ERC20.sol" {
			t.Errorf("Remap() = %q %v, want the explicit target", got, ok)
		}
	})

	t.Run("first-listed wins a full tie", func(t *testing.T) {
		p := &Project{Remappings: []Remapping{
			{Prefix: "@oz/", Target: "first/", Source: SourceRemappingsTxt},
			{Prefix: "@oz/", Target: "second/", Source: SourceRemappingsTxt},
		}}

		got, ok := p.Remap("@oz/A.sol")
		if !ok || got != "first/A.sol" {
			t.Errorf("Remap() = %q %v, want first/A.sol", got, ok)
		}
	})

	t.Run("reports misses", func(t *testing.T) {
		p := &Project{}

		if _, ok := p.Remap("forge-std/Test.sol"); ok {
			t.Error("Remap() matched with no remappings loaded")
		}
	})
}

func TestLoadRemappings(t *testing.T) {
	t.Run("auto-detects well-known library checkouts", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "foundry.toml"), "")
		mustMkdirAll(t, filepath.Join(root, "lib", "ds-test", "src"))

		proj, err := Detect(root)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		got, ok := proj.Remap("ds-test/test.sol")
		if !ok || got != "lib/ds-test/src/test.sol" {
			t.Errorf("Remap() = %q %v, want lib/ds-test/src/test.sol", got, ok)
		}

		// No checkout for openzeppelin, so its default must not apply.
		if _, ok := proj.Remap("@openzeppelin/token/ERC20.sol"); ok {
			t.Error("Remap() applied a default for a missing checkout")
		}
	})

	t.Run("foundry config beats remappings.txt beats defaults", func(t *testing.T) {
		root := t.TempDir()
		mustMkdirAll(t, filepath.Join(root, "lib", "openzeppelin-contracts"))
		writeTestFile(t, filepath.Join(root, "remappings.txt"),
			"# vendored checkouts\n\n@openzeppelin/=vendor/oz/\nsolmate/=vendor/solmate/\n")
		writeTestFile(t, filepath.Join(root, "foundry.toml"),
			"[profile.default]\nsrc = \"contracts\"\nremappings = [\"@openzeppelin/=custom/oz/\"]\n")

		proj, err := Detect(root)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		got, ok := proj.Remap("@openzeppelin/token/ERC20.sol")
		if !ok || got != "custom/oz/token/ERC20.sol" {
			t.Errorf("Remap() = %q %v, want the foundry.toml target", got, ok)
		}

		got, ok = proj.Remap("solmate/auth/Owned.sol")
		if !ok || got != "vendor/solmate/auth/Owned.sol" {
			t.Errorf("Remap() = %q %v, want the remappings.txt target", got, ok)
		}
	})

	t.Run("explicit flags beat every file source", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "remappings.txt"), "@openzeppelin/=vendor/oz/\n")

		proj, err := Detect(root)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}

		if err := proj.AddRemappings([]string{"@openzeppelin/=flag/oz/"}); err != nil {
			t.Fatalf("AddRemappings() error = %v", err)
		}

		got, ok := proj.Remap("@openzeppelin/token/ERC20.sol")
		if !ok || got != "flag/oz/token/ERC20.sol" {
			t.Errorf("Remap() = %q %v, want the flag target", got, ok)
		}
	})

	t.Run("rejects malformed explicit pairs", func(t *testing.T) {
		proj := &Project{}

		if err := proj.AddRemappings([]string{"broken"}); err == nil {
			t.Fatal("AddRemappings() accepted a pair without =")
		}
	})
}
