package evtfile

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/griff/internal/options"
)

// DefaultBufferSize is the size of the buffered file I/O of readers and writers.
const DefaultBufferSize = 64 * 1024

func defaultLogger() *logrus.Entry {
	return logrus.WithField("component", "evtfile")
}

type WriterOption = options.Option[*FileWriter]

// WithWriterLogger sets the logger used by the writer.
func WithWriterLogger(logger *logrus.Entry) WriterOption {
	return options.NoError(func(fw *FileWriter) {
		if logger != nil {
			fw.logger = logger
		}
	})
}

// WithWriterBufferSize sets the file buffer size of the writer.
func WithWriterBufferSize(size int) WriterOption {
	return options.New(func(fw *FileWriter) error {
		if size <= 0 {
			return fmt.Errorf("invalid writer buffer size %d", size)
		}
		fw.bufferSize = size

		return nil
	})
}

type ReaderOption = options.Option[*FileReader]

// WithReaderLogger sets the logger used by the reader.
func WithReaderLogger(logger *logrus.Entry) ReaderOption {
	return options.NoError(func(fr *FileReader) {
		if logger != nil {
			fr.logger = logger
		}
	})
}

// WithDBListener attaches the listener receiving DB section bytes.
func WithDBListener(listener DBListener) ReaderOption {
	return options.NoError(func(fr *FileReader) {
		fr.listener = listener
	})
}
