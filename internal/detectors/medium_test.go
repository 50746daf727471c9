package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solvet.dev/pkg/solvet/internal/analysis"
)

func TestUncheckedLowLevelCall(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "bare call statement",
			id:   "unchecked-low-level-call",
			source: `contract C {
    function f(address t, bytes memory d) public {
        t.call(d);
    }
}`,
			want: 1,
		},
		{
			name: "success flag bound",
			id:   "unchecked-low-level-call",
			source: `contract C {
    function f(address t, bytes memory d) public {
        (bool ok, ) = t.call(d);
        require(ok, "call failed");
    }
}`,
			want: 0,
		},
		{
			name: "bare staticcall statement",
			id:   "unchecked-low-level-call",
			source: `contract C {
    function f(address t, bytes memory d) public view {
        t.staticcall(d);
    }
}`,
			want: 1,
		},
	})
}

func TestTxOriginUsage(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "tx.origin auth",
			id:   "tx-origin-usage",
			source: `contract C {
    address owner;
    function f() public view {
        require(tx.origin == owner, "denied");
    }
}`,
			want: 1,
		},
		{
			name: "msg.sender auth",
			id:   "tx-origin-usage",
			source: `contract C {
    address owner;
    function f() public view {
        require(msg.sender == owner, "denied");
    }
}`,
			want: 0,
		},
	})
}

func TestDeprecatedTransfer(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "payable transfer",
			id:   "deprecated-transfer",
			source: `contract C {
    function f(address payable to, uint256 amount) public {
        to.transfer(amount);
    }
}`,
			want: 1,
		},
		{
			name: "erc20 transfer has two args",
			id:   "deprecated-transfer",
			source: `contract C {
    function f(IERC20 token, address to, uint256 amount) public {
        token.transfer(to, amount);
    }
}`,
			want: 0,
		},
	})
}

func TestCentralizationRisk(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "onlyOwner function",
			id:   "centralization-risk",
			source: `contract C {
    function setFee(uint256 fee) public onlyOwner {}
}`,
			want: 1,
		},
		{
			name: "requiresAuth function",
			id:   "centralization-risk",
			source: `contract C {
    function setFee(uint256 fee) public requiresAuth {}
}`,
			want: 1,
		},
		{
			name: "unprivileged function",
			id:   "centralization-risk",
			source: `contract C {
    function deposit(uint256 amount) public nonReentrant {}
}`,
			want: 0,
		},
	})
}

func TestFeeOnTransfer(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "pull into address(this)",
			id:   "fee-on-transfer",
			source: `contract C {
    function pull(IERC20 token, uint256 amount) public {
        token.transferFrom(msg.sender, address(this), amount);
    }
}`,
			want: 1,
		},
		{
			name: "encoded transferFrom selector",
			id:   "fee-on-transfer",
			source: `contract C {
    function pull(address token, uint256 amount) public {
        token.call(abi.encodeWithSelector(0x23b872dd, msg.sender, address(this), amount));
    }
}`,
			want: 1,
		},
		{
			name: "transfer between third parties",
			id:   "fee-on-transfer",
			source: `contract C {
    function move(IERC20 token, address from, address to, uint256 amount) public {
        token.transferFrom(from, to, amount);
    }
}`,
			want: 0,
		},
	})
}

func TestBlockNumberL2(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "block.number timing",
			id:   "block-number-l2",
			source: `contract C {
    uint256 start;
    function elapsed() public view returns (uint256) {
        return block.number - start;
    }
}`,
			want: 1,
		},
	})
}

func TestL2SequencerCheck(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "answer slot dropped in declaration",
			id:   "l2-sequencer-check",
			source: `contract C {
    function read(AggregatorV3Interface feed) public view {
        (uint80 roundId, , uint256 startedAt, uint256 updatedAt, uint80 answeredInRound) = feed.latestRoundData();
    }
}`,
			want: 1,
		},
		{
			name: "answer slot bound",
			id:   "l2-sequencer-check",
			source: `contract C {
    function read(AggregatorV3Interface feed) public view {
        (uint80 roundId, int256 answer, uint256 startedAt, uint256 updatedAt, uint80 answeredInRound) = feed.latestRoundData();
    }
}`,
			want: 0,
		},
	})
}

func TestNFTMintAsymmetry(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "only _mint defined",
			id:   "nft-mint-asymmetry",
			source: `contract C {
    function _mint(address to, uint256 id) internal {}
}`,
			want: 1,
		},
		{
			name: "both defined",
			id:   "nft-mint-asymmetry",
			source: `contract C {
    function _mint(address to, uint256 id) internal {}
    function _safeMint(address to, uint256 id) internal {}
}`,
			want: 0,
		},
	})
}

func TestMissingOverride(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "redefined without override",
			id:   "missing-override",
			source: `contract Base {
    function rate() public virtual returns (uint256) { return 1; }
}
contract Child is Base {
    function rate() public returns (uint256) { return 2; }
}`,
			want: 1,
		},
		{
			name: "redefined with override",
			id:   "missing-override",
			source: `contract Base {
    function rate() public virtual returns (uint256) { return 1; }
}
contract Child is Base {
    function rate() public override returns (uint256) { return 2; }
}`,
			want: 0,
		},
		{
			name: "base function not virtual",
			id:   "missing-override",
			source: `contract Base {
    function rate() public returns (uint256) { return 1; }
}
contract Child is Base {
    function price() public returns (uint256) { return 2; }
}`,
			want: 0,
		},
	})
}

func TestShadowedStateVariable(t *testing.T) {
	runCases(t, []detectorCase{
		{
			name: "shadowed across the chain",
			id:   "shadowed-state-variable",
			source: `contract Base {
    uint256 total;
}
contract Mid is Base {}
contract Child is Mid {
    uint256 total;
}`,
			want: 1,
		},
		{
			name: "distinct names",
			id:   "shadowed-state-variable",
			source: `contract Base {
    uint256 total;
}
contract Child is Base {
    uint256 childTotal;
}`,
			want: 0,
		},
	})
}

func TestL2DetectorsGated(t *testing.T) {
	source := `contract C {
    function height() public view returns (uint256) {
        return block.number;
    }
}`

	flags := analysis.DefaultFlags()
	flags.L2 = false

	findings, diags := analysis.AnalyzeSource("test.sol", source, Registry(), flags)
	require.Empty(t, diags)
	assert.Equal(t, 0, countFindings(findings, "block-number-l2"))
}
