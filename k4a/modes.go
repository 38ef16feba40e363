package k4a

// Dimensions returns the depth and IR image size a depth mode produces.
func (m DepthMode) Dimensions() (width, height int) {
	switch m {
	case DepthModeNFOV2x2Binned:
		return 320, 288
	case DepthModeNFOVUnbinned:
		return 640, 576
	case DepthModeWFOV2x2Binned:
		return 512, 512
	case DepthModeWFOVUnbinned, DepthModePassiveIR:
		return 1024, 1024
	default:
		return 0, 0
	}
}

// Range returns the operating range of a depth mode in millimeters.
func (m DepthMode) Range() (near, far uint16) {
	switch m {
	case DepthModeNFOV2x2Binned:
		return 500, 5800
	case DepthModeNFOVUnbinned:
		return 500, 4000
	case DepthModeWFOV2x2Binned:
		return 250, 3000
	case DepthModeWFOVUnbinned:
		return 250, 2500
	default:
		return 0, 0
	}
}

// IRRange returns the useful display range of IR images in a depth mode.
func (m DepthMode) IRRange() (lo, hi uint16) {
	if m == DepthModePassiveIR {
		return 0, 100
	}
	return 0, 1000
}

// Dimensions returns the color image size of a resolution.
func (r ColorResolution) Dimensions() (width, height int) {
	switch r {
	case ColorResolution720P:
		return 1280, 720
	case ColorResolution1080P:
		return 1920, 1080
	case ColorResolution1440P:
		return 2560, 1440
	case ColorResolution1536P:
		return 2048, 1536
	case ColorResolution2160P:
		return 3840, 2160
	case ColorResolution3072P:
		return 4096, 3072
	default:
		return 0, 0
	}
}

// Stride returns the row length in bytes of an uncompressed format, or 0
// when the native layer decides it.
func (f ImageFormat) Stride(width int) int {
	switch f {
	case ImageFormatColorBGRA32:
		return width * 4
	case ImageFormatDepth16, ImageFormatIR16, ImageFormatCustom16, ImageFormatColorYUY2:
		return width * 2
	case ImageFormatCustom8, ImageFormatColorNV12:
		return width
	default:
		return 0
	}
}
