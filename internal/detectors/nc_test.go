package detectors

import "testing"

func TestMissingSPDX(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name:   "no header",
			id:     "missing-spdx",
			source: "pragma solidity 0.8.19;\ncontract C {}",
			want:   1,
		},
		{
			name:   "header present",
			id:     "missing-spdx",
			source: "// SPDX-License-Identifier: MIT\npragma solidity 0.8.19;\ncontract C {}",
			want:   0,
		},
	})
}

func TestFloatingPragma(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name:   "caret on deployable contract",
			id:     "floating-pragma",
			source: "pragma solidity ^0.8.19;\ncontract C {}",
			want:   1,
		},
		{
			name:   "caret on interface",
			id:     "floating-pragma",
			source: "pragma solidity ^0.8.19;\ninterface IC {}",
			want:   0,
		},
		{
			name:   "pinned deployable",
			id:     "floating-pragma",
			source: "pragma solidity 0.8.19;\ncontract C {}",
			want:   0,
		},
	})
}

func TestLineLength(t *testing.T) {
	long := "    uint256 constant PADDING_VALUE = 1; //"
	for len(long) <= 120 {
		long += " pad"
	}

	runCases(t, []detectorCase{
		{
			name:   "long line",
			id:     "line-length",
			source: "contract C {\n" + long + "\n}",
			want:   1,
		},
		{
			name:   "short lines",
			id:     "line-length",
			source: "contract C {\n    uint256 constant X = 1;\n}",
			want:   0,
		},
	})
}

func TestConstantCase(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "lowercase constant",
			id:   "constant-case",
			source: `contract C {
    uint256 constant maxSupply = 10;
}`,
			want: 1,
		},
		{
			name: "shouting constant",
			id:   "constant-case",
			source: `contract C {
    uint256 constant MAX_SUPPLY = 10;
}`,
			want: 0,
		},
		{
			name: "lowercase immutable",
			id:   "constant-case",
			source: `contract C {
    uint256 immutable startBlock;
}`,
			want: 1,
		},
		{
			name: "plain variable exempt",
			id:   "constant-case",
			source: `contract C {
    uint256 total;
}`,
			want: 0,
		},
	})
}

func TestInterfaceNaming(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name:   "unprefixed interface",
			id:     "interface-naming",
			source: "interface Token {}",
			want:   1,
		},
		{
			name:   "prefixed interface",
			id:     "interface-naming",
			source: "interface IToken {}",
			want:   0,
		},
		{
			name:   "contract is exempt",
			id:     "interface-naming",
			source: "contract Token {}",
			want:   0,
		},
	})
}

func TestMissingErrorMessage(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "bare require",
			id:   "missing-error-message",
			source: `contract C {
    function f(bool ok) public pure {
        require(ok);
    }
}`,
			want: 1,
		},
		{
			name: "empty reason string",
			id:   "missing-error-message",
			source: `contract C {
    function f(bool ok) public pure {
        require(ok, "");
    }
}`,
			want: 1,
		},
		{
			name: "bare revert",
			id:   "missing-error-message",
			source: `contract C {
    function f() public pure {
        revert();
    }
}`,
			want: 1,
		},
		{
			name: "reasoned require",
			id:   "missing-error-message",
			source: `contract C {
    function f(bool ok) public pure {
        require(ok, "not ok");
    }
}`,
			want: 0,
		},
		{
			name: "custom error",
			id:   "missing-error-message",
			source: `contract C {
    error Nope();
    function f() public pure {
        revert Nope();
    }
}`,
			want: 0,
		},
	})
}

func TestEmptyBlocks(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "empty function",
			id:   "empty-blocks",
			source: `contract C {
    function noop() public {}
}`,
			want: 1,
		},
		{
			name: "empty constructor exempt",
			id:   "empty-blocks",
			source: `contract C {
    constructor() {}
}`,
			want: 0,
		},
		{
			name: "virtual stub exempt",
			id:   "empty-blocks",
			source: `abstract contract C {
    function hook() public virtual {}
}`,
			want: 0,
		},
	})
}

func TestHardcodedAddress(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "literal address",
			id:   "hardcoded-address",
			source: `contract C {
    address router = 0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D;
}`,
			want: 1,
		},
		{
			name: "zero address sentinel",
			id:   "hardcoded-address",
			source: `contract C {
    address empty = 0x0000000000000000000000000000000000000000;
}`,
			want: 0,
		},
		{
			name: "dead address sentinel",
			id:   "hardcoded-address",
			source: `contract C {
    address burn = 0x000000000000000000000000000000000000dEaD;
}`,
			want: 0,
		},
		{
			name: "short hex literal",
			id:   "hardcoded-address",
			source: `contract C {
    uint256 sel = 0x23b872dd;
}`,
			want: 0,
		},
	})
}

func TestConsoleLogImport(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name:   "console import",
			id:     "console-log-import",
			source: `import "forge-std/console.sol";` + "\ncontract C {}",
			want:   1,
		},
		{
			name:   "console2 import",
			id:     "console-log-import",
			source: `import "forge-std/console2.sol";` + "\ncontract C {}",
			want:   1,
		},
		{
			name:   "regular import",
			id:     "console-log-import",
			source: `import "forge-std/Test.sol";` + "\ncontract C {}",
			want:   0,
		},
	})
}

func TestTodoLeft(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "todo comment",
			id:   "todo-left",
			source: `contract C {
    // TODO: handle the zero case
    function f() public pure {}
}`,
			want: 1,
		},
		{
			name: "fixme in block comment",
			id:   "todo-left",
			source: `contract C {
    /* FIXME rounding */
    function f() public pure {}
}`,
			want: 1,
		},
		{
			name: "clean comments",
			id:   "todo-left",
			source: `contract C {
    // handles the zero case
    function f() public pure {}
}`,
			want: 0,
		},
	})
}

func TestLargeLiteral(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "bare million",
			id:   "large-literal",
			source: `contract C {
    uint256 cap = 1000000;
}`,
			want: 1,
		},
		{
			name: "underscored million",
			id:   "large-literal",
			source: `contract C {
    uint256 cap = 1_000_000;
}`,
			want: 0,
		},
		{
			name: "ether units",
			id:   "large-literal",
			source: `contract C {
    uint256 cap = 1 ether;
}`,
			want: 0,
		},
	})
}
