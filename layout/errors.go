package layout

import "errors"

// 运行级错误类别。默认任何一类都会中止整次运行：输出是无法回退的
// 有序流，页面一旦开始写出就没有部分成功可言。FilterMode 下
// ErrInvalidCharacter 与 ErrMeasurement 降级为段落级错误，跳过该段
// 继续扫描；其余类别在任何模式下都是致命的。
var (
	ErrInvalidCharacter   = errors.New("layout: 输入中存在非法字符")
	ErrEncodingConversion = errors.New("layout: 字符编码转换失败")
	ErrMeasurement        = errors.New("layout: 字符宽度测量失败")
)
