package compiler

import "fmt"

// SeparateArtifact names a compiler output emitted as its own file, one flag
// per artifact. The flag spellings are solc's; changing one silently changes
// what the compiler produces, so the table is authoritative.
type SeparateArtifact int

const (
	SeparateAST SeparateArtifact = iota
	SeparateASTJSON
	SeparateASTCompactJSON
	SeparateASM
	SeparateASMJSON
	SeparateOpcodes
	SeparateBin
	SeparateBinRuntime
	SeparateABI
	SeparateHashes
	SeparateUserDoc
	SeparateDevDoc
	SeparateMetadata

	numSeparateArtifacts = iota
)

var separateFlags = [numSeparateArtifacts]string{
	SeparateAST:            "--ast",
	SeparateASTJSON:        "--ast-json",
	SeparateASTCompactJSON: "--ast-compact-json",
	SeparateASM:            "--asm",
	SeparateASMJSON:        "--asm-json",
	SeparateOpcodes:        "--opcodes",
	SeparateBin:            "--bin",
	SeparateBinRuntime:     "--bin-runtime",
	SeparateABI:            "--abi",
	SeparateHashes:         "--hashes",
	SeparateUserDoc:        "--userdoc",
	SeparateDevDoc:         "--devdoc",
	SeparateMetadata:       "--metadata",
}

// Flag returns the solc command-line flag for the artifact.
func (a SeparateArtifact) Flag() string {
	if a < 0 || a >= numSeparateArtifacts {
		panic(fmt.Sprintf("invalid SeparateArtifact %d", int(a)))
	}
	return separateFlags[a]
}

func (a SeparateArtifact) String() string { return a.Flag() }

// CombinedArtifact names an entry of the combined-JSON manifest. The
// vocabulary differs from SeparateArtifact: combined mode has srcmap outputs
// and an interface entry that separate mode lacks.
type CombinedArtifact int

const (
	CombinedABI CombinedArtifact = iota
	CombinedASM
	CombinedAST
	CombinedBin
	CombinedBinRuntime
	CombinedCompactFormat
	CombinedDevDoc
	CombinedHashes
	CombinedInterface
	CombinedMetadata
	CombinedOpcodes
	CombinedSourceMap
	CombinedSourceMapRuntime
	CombinedUserDoc

	numCombinedArtifacts = iota
)

var combinedTokens = [numCombinedArtifacts]string{
	CombinedABI:              "abi",
	CombinedASM:              "asm",
	CombinedAST:              "ast",
	CombinedBin:              "bin",
	CombinedBinRuntime:       "bin-runtime",
	CombinedCompactFormat:    "compact-format",
	CombinedDevDoc:           "devdoc",
	CombinedHashes:           "hashes",
	CombinedInterface:        "interface",
	CombinedMetadata:         "metadata",
	CombinedOpcodes:          "opcodes",
	CombinedSourceMap:        "srcmap",
	CombinedSourceMapRuntime: "srcmap-runtime",
	CombinedUserDoc:          "userdoc",
}

// Token returns the comma-list entry for the artifact, as joined into the
// single --combined-json argument.
func (a CombinedArtifact) Token() string {
	if a < 0 || a >= numCombinedArtifacts {
		panic(fmt.Sprintf("invalid CombinedArtifact %d", int(a)))
	}
	return combinedTokens[a]
}

func (a CombinedArtifact) String() string { return a.Token() }

// ParseSeparateArtifact maps a flag body ("abi", "bin-runtime", ...) to its
// artifact. Used by the manifest layer, which deals in names.
func ParseSeparateArtifact(name string) (SeparateArtifact, error) {
	for i, flag := range separateFlags {
		if flag[2:] == name {
			return SeparateArtifact(i), nil
		}
	}
	return 0, fmt.Errorf("unknown separate output %q", name)
}

// ParseCombinedArtifact maps a combined-JSON entry name to its artifact.
func ParseCombinedArtifact(name string) (CombinedArtifact, error) {
	for i, tok := range combinedTokens {
		if tok == name {
			return CombinedArtifact(i), nil
		}
	}
	return 0, fmt.Errorf("unknown combined output %q", name)
}

// outputMode is the variant tag of the output request: a command is in none,
// separate, or combined mode, never a mix.
type outputMode int

const (
	outputNone outputMode = iota
	outputSeparate
	outputCombined
)
