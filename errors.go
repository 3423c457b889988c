package multiformats

import (
	"errors"

	"github.com/dep2p/go-multiformats/pkg/lib/mferr"
)

// 错误类别，所有子包的错误都归入其一
var (
	// ErrNotFound 名称、代码或前缀未注册
	ErrNotFound = mferr.ErrNotFound

	// ErrInvalid 格式错误或参数非法
	ErrInvalid = mferr.ErrInvalid
)

// 上下文生命周期错误
var (
	// ErrClosed 上下文已关闭
	ErrClosed = errors.New("multiformats context closed")
)

// IsNotFound 判断是否为查找失败
func IsNotFound(err error) bool { return mferr.IsNotFound(err) }

// IsInvalid 判断是否为值非法
func IsInvalid(err error) bool { return mferr.IsInvalid(err) }
