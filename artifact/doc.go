// Package artifact reads and writes persisted category artifacts.
//
// An artifact is a document holding two parallel sequences:
//
//	{
//	  "template_names":   ["sword", "shield"],
//	  "descriptors_list": ["<base64>", "<base64>"]
//	}
//
// descriptors_list[i] is the encoded descriptor collection of
// template_names[i]. Artifacts may be stored zstd- or lz4-compressed; a
// BlobSource recognizes both by their frame magic and decompresses
// transparently.
//
// A Source resolves a category to its artifact. BlobSource reads blob
// "<category><suffix>" from any blobstore.BlobStore; the dynamo package
// reads one DynamoDB item per category.
package artifact
