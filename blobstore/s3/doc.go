// Package s3 stores serialized arrays in Amazon S3.
//
//	store, err := s3.New(ctx, "models",
//		s3.WithPrefix("embeddings/"),
//		s3.WithRegion("eu-central-1"),
//	)
//	if err != nil {
//		return err
//	}
//	err = embedpq.Save(ctx, store, "glove-300d.epq", arr)
//
// Uploads go through the SDK upload manager and carry a CRC32C checksum
// unless WithoutChecksum is set. Each ReadAt issues a single ranged
// GetObject. List follows continuation tokens until the listing is complete.
package s3
