package compress

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/corvidwave/ctxpack/internal/model"
)

// treeSitterCompressor adapts one languageSpec into the registry's
// Compressor contract. A retained declaration's signature (everything up to
// its body) is emitted verbatim; what happens to its body depends on
// whether the declaration is a container (class, struct, impl, trait,
// namespace, module — per languageSpec.containers): a container's body is
// walked with the same declaration logic recursively, so nested method
// signatures, constructors, and field declarations survive; a non-container
// (function, method) body is replaced outright by the language's
// placeholder.
type treeSitterCompressor struct {
	spec languageSpec
}

func (t treeSitterCompressor) Name() string { return t.spec.name }

func (t treeSitterCompressor) Extensions() []string { return t.spec.extensions }

func (t treeSitterCompressor) Compress(source []byte) (out model.CompressionOutput) {
	defer func() {
		if r := recover(); r != nil {
			out = model.CompressionOutput{Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	source = stripBOM(source)
	if !utf8.Valid(source) {
		return model.CompressionOutput{Reason: "invalid utf-8"}
	}

	parser := sitter.NewParser()
	parser.SetLanguage(t.spec.language())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return model.CompressionOutput{Reason: "parse error"}
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		return model.CompressionOutput{Reason: "parse error"}
	}

	var buf bytes.Buffer
	t.emitNode(root, source, &buf)
	text := buf.String()

	if strings.TrimSpace(text) == "" {
		return model.CompressionOutput{Reason: "empty output"}
	}
	if len(text) >= len(source) {
		return model.CompressionOutput{Reason: "non-shrinking output"}
	}
	return model.CompressionOutput{Ok: true, Text: text}
}

// emitNode walks node's direct children, retaining every declaration's
// signature and either recursing into a container declaration's body (so
// its own members get the same treatment) or replacing a leaf
// declaration's body with the placeholder. Called once for the parse
// tree's root and again, recursively, for each container body encountered.
func (t treeSitterCompressor) emitNode(node *sitter.Node, source []byte, buf *bytes.Buffer) {
	last := node.StartByte()
	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if !t.spec.declarations[child.Type()] {
			continue
		}
		body := t.findBody(child)
		if body == nil {
			continue
		}
		buf.Write(source[last:body.StartByte()])
		if t.spec.containers[child.Type()] {
			t.emitNode(body, source, buf)
		} else {
			buf.WriteString(t.spec.placeholder)
		}
		last = body.EndByte()
	}
	buf.Write(source[last:node.EndByte()])
}

func (t treeSitterCompressor) findBody(decl *sitter.Node) *sitter.Node {
	count := int(decl.ChildCount())
	for i := 0; i < count; i++ {
		child := decl.Child(i)
		if child != nil && t.spec.bodyKinds[child.Type()] {
			return child
		}
	}
	return nil
}

func stripBOM(source []byte) []byte {
	const bom = "\xef\xbb\xbf"
	if bytes.HasPrefix(source, []byte(bom)) {
		return source[len(bom):]
	}
	return source
}

// newTreeSitterCompressors builds one Compressor per configured language.
func newTreeSitterCompressors() []Compressor {
	compressors := make([]Compressor, 0, len(languageSpecs))
	for _, spec := range languageSpecs {
		compressors = append(compressors, treeSitterCompressor{spec: spec})
	}
	return compressors
}
