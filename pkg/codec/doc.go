// Package codec reads and writes TileMaze .mze files.
//
// A .mze file is either a maze definition, which describes the line
// geometry of every puzzle piece, or a saved game, which additionally
// records where each piece sits, how far it is rotated and how long the
// game has been played.
//
// # File Format
//
// All integers are big-endian two's complement, all floats are IEEE-754
// single precision. Every field is 4 bytes wide except the elapsed time,
// which is 8 bytes.
//
// Definition files start with the magic CAFEBEEF:
//
//	[Magic(4)][PieceCount(4)]
//	repeated PieceCount times:
//	  [Legacy(4)][PieceID(4)][LineCount(4)]
//	  repeated LineCount times:
//	    [X0(4)][Y0(4)][X1(4)][Y1(4)]
//
// Save files start with the magic CAFEDEED:
//
//	[Magic(4)][PieceCount(4)][ElapsedMillis(8)]
//	repeated PieceCount times:
//	  [SlotID(4)][Rotation(4)][LineCount(4)]
//	  repeated LineCount times:
//	    [X0(4)][Y0(4)][X1(4)][Y1(4)]
//
// The Legacy word in definition pieces is a leftover of an earlier format
// revision. It carries no meaning but existing definition files contain
// it, so the decoder reads and discards it.
//
// There is no encoder for definitions. Definitions are authored outside
// this package; the encoder always produces the save layout.
//
// # Usage
//
//	c := codec.NewMazeCodec()
//
//	data, err := c.Encode(pieces, elapsed.Milliseconds())
//	if err != nil {
//	    return err
//	}
//
//	doc, err := c.Decode(bytes.NewReader(data))
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Decode never returns a partially populated Document. Failures are
// classified through sentinel errors that can be tested with errors.Is:
//   - ErrNotFound: the path does not name a readable file
//   - ErrUnknownFormat: the magic number is not recognized
//   - ErrTruncated: the stream ended before a field was complete
//   - ErrMalformed: a count field is negative
//   - ErrIO: the underlying reader or writer failed
//
// Rotation values are stored verbatim. A save with rotation 7 decodes to
// rotation 7; interpreting it is up to the caller.
//
// # Thread Safety
//
// MazeCodec holds no state and is safe for concurrent use. Each Decode or
// Encode call works on its own stream and buffers.
package codec
