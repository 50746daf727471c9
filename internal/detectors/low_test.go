package detectors

import "testing"

func TestUnspecificPragma(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name:   "caret range",
			id:     "unspecific-pragma",
			source: "pragma solidity ^0.8.0;\ncontract C {}",
			want:   1,
		},
		{
			name:   "open range",
			id:     "unspecific-pragma",
			source: "pragma solidity >=0.8.0;\ncontract C {}",
			want:   1,
		},
		{
			name:   "pinned version",
			id:     "unspecific-pragma",
			source: "pragma solidity 0.8.19;\ncontract C {}",
			want:   0,
		},
	})
}

func TestPush0Opcode(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name:   "pinned at 0.8.20",
			id:     "push0-opcode",
			source: "pragma solidity 0.8.20;\ncontract C {}",
			want:   1,
		},
		{
			name:   "pinned below 0.8.20",
			id:     "push0-opcode",
			source: "pragma solidity 0.8.19;\ncontract C {}",
			want:   0,
		},
		{
			name:   "interface only file",
			id:     "push0-opcode",
			source: "pragma solidity 0.8.24;\ninterface IC {}",
			want:   0,
		},
	})
}

func TestEcrecoverMalleability(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "raw ecrecover",
			id:   "ecrecover-malleability",
			source: `contract C {
    function who(bytes32 h, uint8 v, bytes32 r, bytes32 s) public pure returns (address) {
        return ecrecover(h, v, r, s);
    }
}`,
			want: 1,
		},
	})
}

func TestDivisionBeforeMultiplication(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "divide then multiply",
			id:   "division-before-multiplication",
			source: `contract C {
    function f(uint256 a, uint256 b, uint256 c) public pure returns (uint256) {
        return a / b * c;
    }
}`,
			want: 1,
		},
		{
			name: "multiply then divide",
			id:   "division-before-multiplication",
			source: `contract C {
    function f(uint256 a, uint256 b, uint256 c) public pure returns (uint256) {
        return a * b / c;
    }
}`,
			want: 0,
		},
	})
}

func TestUnsafeAbiEncodePacked(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "two dynamic arguments",
			id:   "unsafe-abi-encode-packed",
			source: `contract C {
    function h(string memory a, string memory b) public pure returns (bytes32) {
        return keccak256(abi.encodePacked(a, b));
    }
}`,
			want: 1,
		},
		{
			name: "one dynamic argument",
			id:   "unsafe-abi-encode-packed",
			source: `contract C {
    function h(string memory a, uint256 n) public pure returns (bytes32) {
        return keccak256(abi.encodePacked(a, n));
    }
}`,
			want: 0,
		},
		{
			name: "dynamic state variables",
			id:   "unsafe-abi-encode-packed",
			source: `contract C {
    string name;
    string symbol;
    function h() public view returns (bytes32) {
        return keccak256(abi.encodePacked(name, symbol));
    }
}`,
			want: 1,
		},
	})
}

func TestZeroValueTransfer(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "unguarded amount",
			id:   "zero-value-transfer",
			source: `contract C {
    function pay(IERC20 token, address to, uint256 amount) public {
        token.transfer(to, amount);
    }
}`,
			want: 1,
		},
		{
			name: "guarded amount",
			id:   "zero-value-transfer",
			source: `contract C {
    function pay(IERC20 token, address to, uint256 amount) public {
        require(amount > 0, "zero amount");
        token.transfer(to, amount);
    }
}`,
			want: 0,
		},
		{
			name: "literal amount",
			id:   "zero-value-transfer",
			source: `contract C {
    function pay(IERC20 token, address to) public {
        token.transfer(to, 100);
    }
}`,
			want: 0,
		},
	})
}

func TestLargeApproval(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "type(uint256).max approval",
			id:   "large-approval",
			source: `contract C {
    function open(IERC20 token, address spender) public {
        token.approve(spender, type(uint256).max);
    }
}`,
			want: 1,
		},
		{
			name: "weth is exempt",
			id:   "large-approval",
			source: `contract C {
    function open(IERC20 weth, address spender) public {
        weth.approve(spender, type(uint256).max);
    }
}`,
			want: 0,
		},
		{
			name: "bounded approval",
			id:   "large-approval",
			source: `contract C {
    function open(IERC20 token, address spender, uint256 amount) public {
        token.approve(spender, amount);
    }
}`,
			want: 0,
		},
	})
}

func TestEmptyEtherReceiver(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "empty receive",
			id:   "empty-ether-receiver",
			source: `contract C {
    receive() external payable {}
}`,
			want: 1,
		},
		{
			name: "receive with logic",
			id:   "empty-ether-receiver",
			source: `contract C {
    uint256 received;
    receive() external payable {
        received += msg.value;
    }
}`,
			want: 0,
		},
		{
			name: "virtual receive",
			id:   "empty-ether-receiver",
			source: `abstract contract C {
    receive() external payable virtual {}
}`,
			want: 0,
		},
	})
}

func TestBlockTimestampDeadline(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "strict less-than",
			id:   "block-timestamp-deadline",
			source: `contract C {
    uint256 deadline;
    function check() public view {
        require(block.timestamp < deadline, "expired");
    }
}`,
			want: 1,
		},
		{
			name: "inclusive comparison",
			id:   "block-timestamp-deadline",
			source: `contract C {
    uint256 deadline;
    function check() public view {
        require(block.timestamp <= deadline, "expired");
    }
}`,
			want: 0,
		},
	})
}

func TestNFTHardFork(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "tokenURI without chainid",
			id:   "nft-hard-fork",
			source: `contract C {
    function tokenURI(uint256 id) public pure returns (string memory) {
        return "ipfs://fixed";
    }
}`,
			want: 1,
		},
		{
			name: "chain-aware tokenURI",
			id:   "nft-hard-fork",
			source: `contract C {
    function tokenURI(uint256 id) public view returns (string memory) {
        if (block.chainid != 1) {
            return "";
        }
        return "ipfs://fixed";
    }
}`,
			want: 0,
		},
	})
}
