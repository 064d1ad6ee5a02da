package director

import (
	"regexp"
	"strings"

	"github.com/Faustp1633/Delay-comix/pkg/domain"
)

var tagRegex = regexp.MustCompile(`\[[^\]]+\]`)

// StyleManager はセリフ中のメタタグから吹き出しの種類を判定します。
type StyleManager struct{}

func NewStyleManager() *StyleManager {
	return &StyleManager{}
}

// ResolveShape はセリフに含まれるメタタグから吹き出し形状を判定し、
// タグを除去したセリフを返します。タグがなければ形状は空のままです。
// [thought] は思考の吹き出しに、[shout] は角張った吹き出しになります。
func (s *StyleManager) ResolveShape(text string) (domain.BubbleShape, string) {
	var shape domain.BubbleShape
	switch {
	case strings.Contains(text, "[thought]"):
		shape = domain.ShapeThought
	case strings.Contains(text, "[shout]"):
		shape = domain.ShapeSquare
	}

	cleaned := strings.TrimSpace(tagRegex.ReplaceAllString(text, ""))
	return shape, cleaned
}
