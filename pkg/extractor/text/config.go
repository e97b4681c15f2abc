package text

var SupportedExtensions = []string{
	".txt",
	".text",
	".log",
}

var SupportedMimeTypes = []string{
	"text/plain",
}
